// Package cmodel definisce il modello dati condiviso del dump: descrittori di
// tipo, valori costanti, schemi dei record e siti di dichiarazione.
// Il package è volutamente privo di dipendenze: i frontend lo popolano, il
// motore lo legge.
package cmodel

// TypeKind classifica la struttura di un tipo.
type TypeKind int

const (
	KindInvalid TypeKind = iota
	KindFundamental
	KindPointer
	KindReference
	KindArray
	KindRecord
)

// FundKind è la sotto-classificazione dei tipi fondamentali.
type FundKind int

const (
	FundNone FundKind = iota
	FundBool
	FundInt
	FundUint
	FundFloat
	FundChar
)

// CharWidth distingue la larghezza di un tipo carattere. Narrow è la
// rappresentazione di default; le altre larghezze vengono emesse con il loro
// nome canonico.
type CharWidth int

const (
	CharNone CharWidth = iota
	CharNarrow
	CharWide
	CharUTF8
	CharUTF16
	CharUTF32
)

// TypeDescriptor describes one type as seen by the formatter. Qualifiers are
// carried but stripped before structural dispatch.
type TypeDescriptor struct {
	Kind  TypeKind
	Fund  FundKind  // valid when Kind == KindFundamental
	Width CharWidth // valid when Fund == FundChar

	// Name è il nome come scritto nel sorgente (eventualmente un alias),
	// CanonicalName il nome canonico non qualificato. IsAlias è vero quando i
	// due differiscono: distingue p.es. un alias a 8 bit dal tipo carattere.
	Name          string
	CanonicalName string
	IsAlias       bool

	// Literal indica se il tipo è rappresentabile come costante. I tipi non
	// literal producono la sentinella <non-literal>.
	Literal bool

	Const    bool
	Volatile bool

	Elem   *TypeDescriptor // pointer/reference/array element
	Len    int             // declared array length
	Schema *RecordSchema   // valid when Kind == KindRecord
}

// IsAnyChar reports whether t is a character type of any width.
func (t *TypeDescriptor) IsAnyChar() bool {
	return t != nil && t.Kind == KindFundamental && t.Fund == FundChar
}

// IsNarrowChar reports whether t is the default narrow character type.
func (t *TypeDescriptor) IsNarrowChar() bool {
	return t.IsAnyChar() && t.Width == CharNarrow
}

// SchemaField è un campo dichiarato di un record.
type SchemaField struct {
	Name string
	Type *TypeDescriptor
}

// RecordSchema descrive basi e campi di un record in ordine di dichiarazione.
// È una vista condivisa e immutabile sul tipo dichiarato: più ConstantValue
// dello stesso tipo puntano allo stesso schema.
type RecordSchema struct {
	Name          string
	QualifiedName string
	Bases         []*RecordSchema
	Fields        []SchemaField
}
