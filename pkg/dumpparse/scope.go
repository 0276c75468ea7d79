// Package dumpparse legge il formato testuale prodotto dal dump e lo
// ricostruisce come scope annidati interrogabili per nome qualificato. È il
// lato consumatore del formato: il produttore è internal/collect.
package dumpparse

import (
	"strings"
)

// ScopeSep separa i livelli nei nomi qualificati del dump.
const ScopeSep = "::"

// Scope è una mappa ordinata nome -> valore. Un valore è una costante
// parsata oppure uno *Scope figlio; l'ordine di inserimento è l'ordine del
// dump.
type Scope struct {
	order []string
	vals  map[string]any
}

func NewScope() *Scope {
	return &Scope{vals: map[string]any{}}
}

// Set inserisce value sotto il path qualificato, creando gli scope
// intermedi. Un segmento già occupato da una costante viene sovrascritto da
// uno scope solo se necessario per proseguire il path.
func (s *Scope) Set(path string, value any) {
	head, rest, nested := strings.Cut(path, ScopeSep)
	if !nested {
		if _, ok := s.vals[head]; !ok {
			s.order = append(s.order, head)
		}
		s.vals[head] = value
		return
	}

	child, ok := s.vals[head].(*Scope)
	if !ok {
		child = NewScope()
		if _, present := s.vals[head]; !present {
			s.order = append(s.order, head)
		}
		s.vals[head] = child
	}
	child.Set(rest, value)
}

// Get risolve un path qualificato.
func (s *Scope) Get(path string) (any, bool) {
	head, rest, nested := strings.Cut(path, ScopeSep)
	v, ok := s.vals[head]
	if !ok {
		return nil, false
	}
	if !nested {
		return v, true
	}
	child, ok := v.(*Scope)
	if !ok {
		return nil, false
	}
	return child.Get(rest)
}

// Child ritorna lo scope figlio diretto con quel nome.
func (s *Scope) Child(name string) (*Scope, bool) {
	c, ok := s.vals[name].(*Scope)
	return c, ok
}

// Names ritorna i nomi diretti in ordine di inserimento.
func (s *Scope) Names() []string {
	return append([]string{}, s.order...)
}

// Len conta le voci dirette.
func (s *Scope) Len() int { return len(s.order) }

// Walk visita ricorsivamente le sole costanti (non gli scope), passando il
// path qualificato completo.
func (s *Scope) Walk(fn func(path string, value any)) {
	s.walk("", fn)
}

func (s *Scope) walk(prefix string, fn func(string, any)) {
	for _, name := range s.order {
		full := name
		if prefix != "" {
			full = prefix + ScopeSep + name
		}
		if child, ok := s.vals[name].(*Scope); ok {
			child.walk(full, fn)
			continue
		}
		fn(full, s.vals[name])
	}
}
