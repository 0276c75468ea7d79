package dumpparse

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// literalMarker apre le righe dei literal classificati come magic.
const literalMarker = "#literal "

// literalTag chiude il nome sintetizzato di ogni literal magic.
const literalTag = "(literal)"

// Enumerator è una voce di enum con il suo valore parsato.
type Enumerator struct {
	Name  string // ultimo segmento del nome qualificato
	Value any
}

// Enum è un blocco enum del dump, con gli enumeratori in ordine.
type Enum struct {
	Name        string // nome qualificato
	Enumerators []Enumerator
}

// Value cerca un enumeratore per nome semplice.
func (e *Enum) Value(name string) (any, bool) {
	for _, en := range e.Enumerators {
		if en.Name == name {
			return en.Value, true
		}
	}
	return nil, false
}

// Dump è il risultato del parse di un intero file di dump.
type Dump struct {
	// Constants contiene costanti, enumeratori, literal e valori di funzione,
	// organizzati per scope. I literal magic hanno nomi sintetici con
	// backtick, ineleggibili come identificatori, per non collidere mai con
	// le costanti reali.
	Constants *Scope

	// Enums indicizza i blocchi enum per nome qualificato.
	Enums map[string]*Enum

	// Records mappa ogni tipo record sui nomi dei suoi campi appiattiti.
	Records map[string][]string

	// Skipped conta le righe non riconosciute in modalità non-strict.
	Skipped int
}

// Options controlla il comportamento del parser.
type Options struct {
	// Strict fa fallire il parse alla prima riga non riconosciuta invece di
	// saltarla.
	Strict bool
}

// Parse legge un dump completo da r.
func Parse(r io.Reader, opts Options) (*Dump, error) {
	p := &parser{
		dump: &Dump{
			Constants: NewScope(),
			Enums:     map[string]*Enum{},
			Records:   map[string][]string{},
		},
		strict:      opts.Strict,
		litCounters: map[string]int{},
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineno := 0
	for sc.Scan() {
		lineno++
		if err := p.line(sc.Text(), lineno); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read dump: %w", err)
	}
	if p.enum != nil {
		return nil, fmt.Errorf("unterminated enum %s", p.enum.Name)
	}
	return p.dump, nil
}

// ParseString è Parse su una stringa in memoria.
func ParseString(text string, opts Options) (*Dump, error) {
	return Parse(strings.NewReader(text), opts)
}

type parser struct {
	dump   *Dump
	strict bool

	// enum è il blocco aperto, tra "enum QN {" e "}".
	enum *Enum

	// litCounters assegna un progressivo per scope ai literal anonimi.
	litCounters map[string]int
}

func (p *parser) line(raw string, lineno int) error {
	line := strings.TrimSpace(raw)
	if line == "" {
		return nil
	}

	switch {
	case p.enum != nil:
		return p.enumLine(line, lineno)
	case strings.HasPrefix(line, "enum ") && strings.HasSuffix(line, "{"):
		name := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(line, "enum "), "{"))
		if name == "" {
			return p.fail(lineno, "enum without name")
		}
		p.enum = &Enum{Name: name}
		return nil
	case strings.HasPrefix(line, literalMarker):
		return p.literalLine(line, lineno)
	case strings.HasSuffix(line, "}") && strings.Contains(line, "{"):
		return p.recordLine(line, lineno)
	case strings.Contains(line, "="):
		return p.constantLine(line, lineno)
	}
	return p.fail(lineno, "unrecognized line %q", line)
}

// enumLine processa una riga dentro un blocco enum: un enumeratore con
// virgola finale, oppure la chiusura.
func (p *parser) enumLine(line string, lineno int) error {
	if line == "}" {
		p.dump.Enums[p.enum.Name] = p.enum
		p.enum = nil
		return nil
	}

	entry := strings.TrimSuffix(line, ",")
	name, text, ok := strings.Cut(entry, "=")
	if !ok {
		return p.fail(lineno, "malformed enumerator %q", line)
	}
	val, err := ParseValue(text)
	if err != nil {
		return p.fail(lineno, "enumerator %s: %v", name, err)
	}

	short := name
	if i := strings.LastIndex(short, ScopeSep); i >= 0 {
		short = short[i+len(ScopeSep):]
	}
	p.enum.Enumerators = append(p.enum.Enumerators, Enumerator{Name: short, Value: val})
	p.dump.Constants.Set(name, val)
	return nil
}

// literalLine processa `#literal NAME=VALUE`. Il segmento (literal) viene
// sostituito da un nome sintetico numerato per scope: più literal magic
// possono condividere lo stesso contesto.
func (p *parser) literalLine(line string, lineno int) error {
	entry := strings.TrimPrefix(line, literalMarker)
	name, text, ok := strings.Cut(entry, "=")
	if !ok {
		return p.fail(lineno, "malformed literal line %q", line)
	}
	val, err := ParseValue(text)
	if err != nil {
		return p.fail(lineno, "literal %s: %v", name, err)
	}

	scope := strings.TrimSuffix(name, literalTag)
	scope = strings.TrimSuffix(scope, ScopeSep)
	n := p.litCounters[scope]
	p.litCounters[scope] = n + 1

	key := fmt.Sprintf("`literal%d", n)
	if scope != "" {
		key = scope + ScopeSep + key
	}
	p.dump.Constants.Set(key, val)
	return nil
}

// recordLine processa `QN{f1,f2}`.
func (p *parser) recordLine(line string, lineno int) error {
	open := strings.IndexByte(line, '{')
	name := strings.TrimSpace(line[:open])
	if name == "" {
		return p.fail(lineno, "record without name")
	}
	inner := line[open+1 : len(line)-1]

	var fields []string
	for _, f := range strings.Split(inner, ",") {
		f = strings.TrimSpace(f)
		if f != "" {
			fields = append(fields, f)
		}
	}
	p.dump.Records[name] = fields
	return nil
}

// constantLine processa `QN=VALUE`.
func (p *parser) constantLine(line string, lineno int) error {
	name, text, _ := strings.Cut(line, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return p.fail(lineno, "constant without name")
	}
	val, err := ParseValue(text)
	if err != nil {
		return p.fail(lineno, "constant %s: %v", name, err)
	}
	p.dump.Constants.Set(name, val)
	return nil
}

// fail segnala una riga malformata: errore in strict, conteggio altrimenti.
func (p *parser) fail(lineno int, msg string, args ...any) error {
	if p.strict {
		return fmt.Errorf("line %d: %s", lineno, fmt.Sprintf(msg, args...))
	}
	p.dump.Skipped++
	return nil
}
