package cmodel

// Named è soddisfatto da ogni sito di dichiarazione con un nome qualificato.
// La ricerca di antenati del classificatore lo usa come fallback quando il
// literal non è racchiuso in una funzione.
type Named interface {
	Qualified() string
}

// RefQualifier è il ref-qualifier di una funzione membro.
type RefQualifier int

const (
	RefNone RefQualifier = iota
	RefLValue
	RefRValue
)

// Enumerator è una voce di un enum con il suo valore.
type Enumerator struct {
	QualifiedName string
	Value         *ConstantValue
}

// EnumDecl è la dichiarazione di un enum.
type EnumDecl struct {
	QualifiedName string
	Underlying    *TypeDescriptor // tipo intero sottostante
	Enumerators   []Enumerator
}

func (d *EnumDecl) Qualified() string { return d.QualifiedName }

// VariableDecl è la dichiarazione di una variabile o costante.
type VariableDecl struct {
	QualifiedName string
	Type          *TypeDescriptor

	// IsParam è vero per i parametri di funzione, che non legano mai un
	// literal e non vengono mai emessi.
	IsParam   bool
	HasInit   bool
	ConstEval bool // valutabile a compile time
	Value     *ConstantValue
}

func (d *VariableDecl) Qualified() string { return d.QualifiedName }

// FunctionDecl è la dichiarazione di una funzione.
type FunctionDecl struct {
	QualifiedName string
	Name          string // nome non qualificato
	ParamTypes    []string
	Variadic      bool
	IsConst       bool
	IsVolatile    bool
	Ref           RefQualifier
	Return        *TypeDescriptor

	HasBody     bool
	IsTemplated bool
	ConstEval   bool
}

func (d *FunctionDecl) Qualified() string { return d.QualifiedName }

// StringLiteral è un literal stringa incontrato nel sorgente.
type StringLiteral struct {
	Raw      string // contenuto senza delimitatori
	IsNarrow bool   // codifica narrow di default
	Type     *TypeDescriptor

	// File è il nome del file sorgente che contiene il literal.
	// InDependency marca i literal provenienti da codice esterno al progetto
	// (l'analogo degli header di sistema) e li esclude dal dump.
	File         string
	InDependency bool
}

// RecordTypeDecl è la dichiarazione di un tipo record.
type RecordTypeDecl struct {
	QualifiedName string
	Schema        *RecordSchema

	HasDefinition bool
	IsSynthetic   bool // tipo generato dal compilatore (closure e simili)
	IsLiteral     bool
}

func (d *RecordTypeDecl) Qualified() string { return d.QualifiedName }

// NamedScope è uno scope con nome (package, namespace, tipo contenitore).
type NamedScope struct {
	QualifiedName string
}

func (d *NamedScope) Qualified() string { return d.QualifiedName }

// Evaluator è il valutatore di espressioni costanti fornito dal frontend.
// Un ok falso indica che la valutazione è fallita: il chiamante salta
// silenziosamente l'elemento.
type Evaluator interface {
	EvaluateLiteral(lit *StringLiteral) (*ConstantValue, bool)
	EvaluateCall(fn *FunctionDecl) (*ConstantValue, bool)
}
