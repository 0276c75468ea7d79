package classify

import (
	"fmt"
	"strings"
	"testing"

	"github.com/codellm-devkit/constdump-go/internal/treequery"
	"github.com/codellm-devkit/constdump-go/pkg/cmodel"
)

type fakeEval struct {
	fail bool
}

func (e *fakeEval) EvaluateLiteral(lit *cmodel.StringLiteral) (*cmodel.ConstantValue, bool) {
	if e.fail {
		return nil, false
	}
	return cmodel.StringValue(lit.Raw, ""), true
}

func (e *fakeEval) EvaluateCall(*cmodel.FunctionDecl) (*cmodel.ConstantValue, bool) {
	return nil, false
}

type recordingLog struct {
	warnings []string
}

func (l *recordingLog) Debugf(string, ...any) {}
func (l *recordingLog) Infof(string, ...any)  {}
func (l *recordingLog) Warnf(format string, args ...any) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

func stringType() *cmodel.TypeDescriptor {
	narrow := &cmodel.TypeDescriptor{
		Kind:    cmodel.KindFundamental,
		Fund:    cmodel.FundChar,
		Width:   cmodel.CharNarrow,
		Name:    "rune",
		Literal: true,
	}
	return &cmodel.TypeDescriptor{
		Kind:    cmodel.KindPointer,
		Name:    "string",
		Literal: true,
		Elem:    narrow,
	}
}

func literal(raw string) *cmodel.StringLiteral {
	return &cmodel.StringLiteral{
		Raw:      raw,
		IsNarrow: true,
		Type:     stringType(),
		File:     "main.go",
	}
}

// leafUnder costruisce un nodo literal sotto la catena di payload data,
// dall'esterno verso l'interno.
func leafUnder(lit *cmodel.StringLiteral, payloads ...any) treequery.Node {
	current := (*treequery.BasicNode)(nil)
	for _, p := range payloads {
		n := treequery.NewNode(p)
		if current != nil {
			current.AddChild(n)
		}
		current = n
	}
	leaf := treequery.NewNode(lit)
	if current != nil {
		current.AddChild(leaf)
	}
	return leaf
}

func TestDependencyLiteralRejected(t *testing.T) {
	lit := literal("oops")
	lit.InDependency = true
	node := leafUnder(lit, &cmodel.NamedScope{QualifiedName: "pkg"})
	if line, ok := Literal(lit, node, &fakeEval{}, nil); ok {
		t.Fatalf("want reject, got %q", line)
	}
}

func TestFileNameLiteralRejected(t *testing.T) {
	lit := literal("main.go")
	node := leafUnder(lit, &cmodel.NamedScope{QualifiedName: "pkg"})
	if line, ok := Literal(lit, node, &fakeEval{}, nil); ok {
		t.Fatalf("want reject, got %q", line)
	}
}

func TestBoundLiteralRejected(t *testing.T) {
	lit := literal("hello")
	v := &cmodel.VariableDecl{QualifiedName: "pkg::greeting", ConstEval: true}
	node := leafUnder(lit, v)
	if line, ok := Literal(lit, node, &fakeEval{}, nil); ok {
		t.Fatalf("want reject, got %q", line)
	}
}

func TestBoundMutableVariableWarns(t *testing.T) {
	lit := literal("hello")
	v := &cmodel.VariableDecl{QualifiedName: "pkg::banner"}
	node := leafUnder(lit, v)

	log := &recordingLog{}
	if _, ok := Literal(lit, node, &fakeEval{}, log); ok {
		t.Fatal("want reject")
	}
	if len(log.warnings) != 1 || !strings.Contains(log.warnings[0], "pkg::banner") {
		t.Fatalf("warnings = %v", log.warnings)
	}
	if !strings.Contains(log.warnings[0], "could be marked constant") {
		t.Fatalf("warnings = %v", log.warnings)
	}
}

func TestParameterDoesNotBind(t *testing.T) {
	// Un default di parametro non lega: si risale fino alla funzione.
	lit := literal("fallback")
	fn := &cmodel.FunctionDecl{QualifiedName: "pkg::Lookup", Name: "Lookup", ParamTypes: []string{"string"}}
	param := &cmodel.VariableDecl{QualifiedName: "pkg::Lookup::key", IsParam: true}
	node := leafUnder(lit, fn, param)

	line, ok := Literal(lit, node, &fakeEval{}, nil)
	if !ok {
		t.Fatal("want magic literal")
	}
	want := `#literal pkg::Lookup(string)::(literal)="fallback"`
	if line != want {
		t.Fatalf("got %q, want %q", line, want)
	}
}

func TestFunctionNameLiteralRejected(t *testing.T) {
	lit := literal("Describe")
	fn := &cmodel.FunctionDecl{QualifiedName: "pkg::Describe", Name: "Describe"}
	node := leafUnder(lit, fn)
	if line, ok := Literal(lit, node, &fakeEval{}, nil); ok {
		t.Fatalf("want reject, got %q", line)
	}
}

func TestMagicLiteralInFunction(t *testing.T) {
	lit := literal("oops")
	fn := &cmodel.FunctionDecl{QualifiedName: "ns::f", Name: "f", ParamTypes: []string{"int"}}
	node := leafUnder(lit, fn)

	line, ok := Literal(lit, node, &fakeEval{}, nil)
	if !ok {
		t.Fatal("want magic literal")
	}
	if line != `#literal ns::f(int)::(literal)="oops"` {
		t.Fatalf("got %q", line)
	}
}

func TestSignatureQualifiers(t *testing.T) {
	cases := []struct {
		name string
		fn   *cmodel.FunctionDecl
		want string
	}{
		{
			"no params",
			&cmodel.FunctionDecl{QualifiedName: "ns::f", Name: "f"},
			"ns::f()",
		},
		{
			"variadic only",
			&cmodel.FunctionDecl{QualifiedName: "ns::f", Name: "f", Variadic: true},
			"ns::f(...)",
		},
		{
			"params and variadic",
			&cmodel.FunctionDecl{QualifiedName: "ns::f", Name: "f", ParamTypes: []string{"int", "string"}, Variadic: true},
			"ns::f(int, string, ...)",
		},
		{
			"const volatile",
			&cmodel.FunctionDecl{QualifiedName: "ns::f", Name: "f", IsConst: true, IsVolatile: true},
			"ns::f() const volatile",
		},
		{
			"lvalue ref",
			&cmodel.FunctionDecl{QualifiedName: "ns::f", Name: "f", Ref: cmodel.RefLValue},
			"ns::f() &",
		},
		{
			"rvalue ref const",
			&cmodel.FunctionDecl{QualifiedName: "ns::f", Name: "f", IsConst: true, Ref: cmodel.RefRValue},
			"ns::f() const &&",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lit := literal("x")
			node := leafUnder(lit, tc.fn)
			line, ok := Literal(lit, node, &fakeEval{}, nil)
			if !ok {
				t.Fatal("want magic literal")
			}
			want := `#literal ` + tc.want + `::(literal)="x"`
			if line != want {
				t.Fatalf("got %q, want %q", line, want)
			}
		})
	}
}

func TestMagicLiteralAtScopeLevel(t *testing.T) {
	lit := literal("plain")
	node := leafUnder(lit, &cmodel.NamedScope{QualifiedName: "pkg"})

	line, ok := Literal(lit, node, &fakeEval{}, nil)
	if !ok {
		t.Fatal("want magic literal")
	}
	if line != `#literal pkg::(literal)="plain"` {
		t.Fatalf("got %q", line)
	}
}

func TestEvaluationFailureRejects(t *testing.T) {
	lit := literal("x")
	node := leafUnder(lit, &cmodel.NamedScope{QualifiedName: "pkg"})
	if line, ok := Literal(lit, node, &fakeEval{fail: true}, nil); ok {
		t.Fatalf("want reject, got %q", line)
	}
}

func TestNearestBindingWins(t *testing.T) {
	// Literal dentro una var locale dentro una funzione: lega alla var, non
	// alla funzione.
	lit := literal("local")
	fn := &cmodel.FunctionDecl{QualifiedName: "pkg::f", Name: "f"}
	v := &cmodel.VariableDecl{QualifiedName: "pkg::f::msg", ConstEval: true}
	node := leafUnder(lit, fn, v)
	if line, ok := Literal(lit, node, &fakeEval{}, nil); ok {
		t.Fatalf("want reject, got %q", line)
	}
}
