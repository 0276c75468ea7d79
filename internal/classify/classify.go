// Package classify decide se un literal stringa è "magic" (inline, senza
// nome) oppure già legato a una dichiarazione, e per i magic sintetizza un
// nome qualificato leggibile.
package classify

import (
	"strings"

	"github.com/codellm-devkit/constdump-go/internal/diag"
	"github.com/codellm-devkit/constdump-go/internal/format"
	"github.com/codellm-devkit/constdump-go/internal/treequery"
	"github.com/codellm-devkit/constdump-go/pkg/cmodel"
)

// literalSuffix chiude ogni nome sintetizzato.
const literalSuffix = "::(literal)"

// Literal applica in sequenza i gate di eleggibilità a un literal stringa.
// Il primo gate fallito chiude l'elaborazione senza output. Per i literal
// magic ritorna la riga di dump completa.
func Literal(lit *cmodel.StringLiteral, node treequery.Node, ev cmodel.Evaluator, log diag.Logger) (string, bool) {
	if log == nil {
		log = diag.Nop{}
	}

	// Literal provenienti da codice esterno al progetto.
	if lit.InDependency {
		return "", false
	}

	// Segnaposto di identità del file (l'analogo di __FILE__).
	if lit.IsNarrow && lit.Raw == lit.File {
		return "", false
	}

	// Un literal assegnato a una variabile non-parametro è legato, non magic.
	if v, ok := treequery.FindAncestor[*cmodel.VariableDecl](node, func(v *cmodel.VariableDecl) bool {
		return !v.IsParam
	}); ok {
		if !v.ConstEval {
			log.Warnf("variable %s could be marked constant", v.QualifiedName)
		}
		return "", false
	}

	var name strings.Builder
	if fn, ok := treequery.FindAncestor[*cmodel.FunctionDecl](node, nil); ok {
		// Segnaposto di identità della funzione.
		if lit.IsNarrow && lit.Raw == fn.Name {
			return "", false
		}
		writeSignature(&name, fn)
	} else if owner, ok := treequery.FindAncestor[cmodel.Named](node, nil); ok {
		name.WriteString(owner.Qualified())
	}
	name.WriteString(literalSuffix)

	val, ok := ev.EvaluateLiteral(lit)
	if !ok {
		// Il valutatore solo decide: fallimento = literal non costante.
		return "", false
	}

	return "#literal " + name.String() + "=" + format.Value(val, lit.Type), true
}

// writeSignature riproduce il testo completo della firma della funzione che
// racchiude il literal: nome qualificato, tipi dei parametri, ... per le
// variadiche, qualificatori const/volatile e ref-qualifier.
func writeSignature(sb *strings.Builder, fn *cmodel.FunctionDecl) {
	sb.WriteString(fn.QualifiedName)
	sb.WriteByte('(')
	for i, p := range fn.ParamTypes {
		sb.WriteString(p)
		if i < len(fn.ParamTypes)-1 {
			sb.WriteString(", ")
		}
	}
	if fn.Variadic {
		if len(fn.ParamTypes) > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("...")
	}
	sb.WriteByte(')')

	if fn.IsConst {
		sb.WriteString(" const")
	}
	if fn.IsVolatile {
		sb.WriteString(" volatile")
	}
	switch fn.Ref {
	case cmodel.RefLValue:
		sb.WriteString(" &")
	case cmodel.RefRValue:
		sb.WriteString(" &&")
	}
}
