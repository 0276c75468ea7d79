// Package collect implementa il driver del dump: visita le dichiarazioni in
// ordine di traversata, applica i filtri di eleggibilità e scrive le righe sul
// sink. Tutti i fallimenti restano locali: una dichiarazione scartata non
// interrompe mai il resto del dump.
package collect

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/codellm-devkit/constdump-go/internal/classify"
	"github.com/codellm-devkit/constdump-go/internal/diag"
	"github.com/codellm-devkit/constdump-go/internal/format"
	"github.com/codellm-devkit/constdump-go/internal/treequery"
	"github.com/codellm-devkit/constdump-go/pkg/cmodel"
)

// outputEq separa nome e valore nelle righe emesse.
const outputEq = "="

// Item è una dichiarazione in ordine di documento. Node è la posizione
// nell'albero, valorizzata per i literal stringa.
type Item struct {
	Decl any
	Node treequery.Node
	File string
}

// Config seleziona i tipi di dichiarazione da processare. Enum e variabili
// sono sempre attivi nel dump delle costanti; literal e funzioni zero-argomenti
// sono opzionali per deployment.
type Config struct {
	Enums     bool
	Variables bool
	Records   bool
	Literals  bool
	Functions bool

	// Filter è un'espressione booleana opzionale valutata per dichiarazione.
	Filter string
}

// FilterEnv è l'ambiente visibile alle espressioni di filtro.
type FilterEnv struct {
	Name          string `expr:"Name"`
	QualifiedName string `expr:"QualifiedName"`
	Kind          string `expr:"Kind"`
	File          string `expr:"File"`
	Exported      bool   `expr:"Exported"`
}

// Collector scrive il dump di una unità su un sink esplicito.
// Un'istanza per unità: nessuno stato condiviso tra esecuzioni.
type Collector struct {
	w      io.Writer
	cfg    Config
	ev     cmodel.Evaluator
	log    diag.Logger
	filter *vm.Program
}

// New crea un Collector. Un errore di compilazione del filtro è fatale qui,
// prima che il dump cominci.
func New(w io.Writer, ev cmodel.Evaluator, cfg Config, log diag.Logger) (*Collector, error) {
	if log == nil {
		log = diag.Nop{}
	}
	c := &Collector{w: w, cfg: cfg, ev: ev, log: log}
	if cfg.Filter != "" {
		prog, err := expr.Compile(cfg.Filter, expr.Env(FilterEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile filter: %w", err)
		}
		c.filter = prog
	}
	return c, nil
}

// Run processa le dichiarazioni nell'ordine ricevuto. L'unico errore
// propagato è quello di scrittura sul sink.
func (c *Collector) Run(items []Item) error {
	for _, item := range items {
		var err error
		switch d := item.Decl.(type) {
		case *cmodel.EnumDecl:
			if c.cfg.Enums && c.admits(d.QualifiedName, "enum", item.File) {
				err = c.emitEnum(d)
			}
		case *cmodel.VariableDecl:
			if c.cfg.Variables && c.admits(d.QualifiedName, "variable", item.File) {
				err = c.emitVariable(d)
			}
		case *cmodel.RecordTypeDecl:
			if c.cfg.Records && c.admits(d.QualifiedName, "record", item.File) {
				err = c.emitRecord(d)
			}
		case *cmodel.FunctionDecl:
			if c.cfg.Functions && c.admits(d.QualifiedName, "function", item.File) {
				err = c.emitFunction(d)
			}
		case *cmodel.StringLiteral:
			if c.cfg.Literals && item.Node != nil && c.admits(d.Raw, "literal", item.File) {
				if line, ok := classify.Literal(d, item.Node, c.ev, c.log); ok {
					_, err = fmt.Fprintln(c.w, line)
				}
			}
		}
		if err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return nil
}

// admits valuta il filtro per una dichiarazione. Un errore a runtime scarta
// la sola dichiarazione corrente.
func (c *Collector) admits(qualified, kind, file string) bool {
	if c.filter == nil {
		return true
	}
	name := qualified
	if i := strings.LastIndex(name, "::"); i >= 0 {
		name = name[i+len("::"):]
	}
	env := FilterEnv{
		Name:          name,
		QualifiedName: qualified,
		Kind:          kind,
		File:          file,
		Exported:      isExported(name),
	}
	out, err := expr.Run(c.filter, env)
	if err != nil {
		c.log.Warnf("filter error on %s: %v", qualified, err)
		return false
	}
	keep, _ := out.(bool)
	return keep
}

// emitEnum emette un enum: sempre eleggibile.
func (c *Collector) emitEnum(d *cmodel.EnumDecl) error {
	if _, err := fmt.Fprintf(c.w, "enum %s {\n", d.QualifiedName); err != nil {
		return err
	}
	for _, e := range d.Enumerators {
		// Ogni enumeratore è formattato contro il tipo intero sottostante.
		if _, err := fmt.Fprintf(c.w, "%s%s%s,\n", e.QualifiedName, outputEq, format.Value(e.Value, d.Underlying)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(c.w, "}")
	return err
}

// emitVariable emette una variabile se supera tutti i gate di eleggibilità.
func (c *Collector) emitVariable(d *cmodel.VariableDecl) error {
	if d.Type == nil || !d.Type.Literal {
		return nil
	}
	if d.IsParam {
		return nil
	}
	if !d.HasInit {
		return nil
	}
	if !d.ConstEval {
		return nil
	}
	if d.Value == nil {
		return nil
	}
	_, err := fmt.Fprintf(c.w, "%s%s%s\n", d.QualifiedName, outputEq, format.Value(d.Value, d.Type))
	return err
}

// emitRecord emette la descrizione nome-per-nome di un tipo record.
func (c *Collector) emitRecord(d *cmodel.RecordTypeDecl) error {
	if d.Schema == nil || d.Schema.Name == "" {
		return nil
	}
	if !d.HasDefinition || d.IsSynthetic || !d.IsLiteral {
		return nil
	}
	// I tipi senza stato osservabile non vengono emessi affatto.
	if !format.HasAnyFields(d.Schema) {
		return nil
	}
	_, err := fmt.Fprintf(c.w, "%s{%s}\n", d.QualifiedName, format.RecordNames(d.Schema))
	return err
}

// emitFunction valuta una funzione zero-argomenti come espressione costante e
// ne emette il risultato. Il fallimento della valutazione scarta in silenzio.
func (c *Collector) emitFunction(d *cmodel.FunctionDecl) error {
	if !d.HasBody || d.IsTemplated || !d.ConstEval {
		return nil
	}
	if len(d.ParamTypes) != 0 || d.Variadic {
		return nil
	}
	if d.Return == nil {
		return nil
	}
	val, ok := c.ev.EvaluateCall(d)
	if !ok {
		return nil
	}
	_, err := fmt.Fprintf(c.w, "%s%s%s\n", d.QualifiedName, outputEq, format.Value(val, d.Return))
	return err
}

func isExported(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}
