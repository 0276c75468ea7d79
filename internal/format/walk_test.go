package format

import (
	"testing"

	"github.com/codellm-devkit/constdump-go/pkg/cmodel"
)

func pointSchema() *cmodel.RecordSchema {
	return &cmodel.RecordSchema{
		Name:          "Point",
		QualifiedName: "geo::Point",
		Fields: []cmodel.SchemaField{
			{Name: "X", Type: intType()},
			{Name: "Y", Type: intType()},
		},
	}
}

func emptySchema(name string) *cmodel.RecordSchema {
	return &cmodel.RecordSchema{Name: name, QualifiedName: "geo::" + name}
}

func recordType(s *cmodel.RecordSchema) *cmodel.TypeDescriptor {
	return &cmodel.TypeDescriptor{
		Kind:          cmodel.KindRecord,
		Name:          s.Name,
		CanonicalName: s.Name,
		Schema:        s,
		Literal:       true,
	}
}

func pointValue(x, y int64) *cmodel.ConstantValue {
	return cmodel.StructValue(nil, []*cmodel.ConstantValue{
		cmodel.Int64Value(x), cmodel.Int64Value(y),
	})
}

func TestFlatStruct(t *testing.T) {
	got := Value(pointValue(1, 2), recordType(pointSchema()))
	if got != "geo::Point(1,2)" {
		t.Fatalf("got %q, want geo::Point(1,2)", got)
	}
}

func TestStructWithBaseAndFields(t *testing.T) {
	labeled := &cmodel.RecordSchema{
		Name:          "Labeled",
		QualifiedName: "geo::Labeled",
		Bases:         []*cmodel.RecordSchema{pointSchema()},
		Fields: []cmodel.SchemaField{
			{Name: "Label", Type: stringType()},
		},
	}
	v := cmodel.StructValue(
		[]*cmodel.ConstantValue{pointValue(1, 2)},
		[]*cmodel.ConstantValue{cmodel.StringValue("tag", "")},
	)
	got := Value(v, recordType(labeled))
	if got != `geo::Labeled(1,2,"tag")` {
		t.Fatalf("got %q", got)
	}
}

func TestTrailingBaseGetsNoComma(t *testing.T) {
	// L'ultima base di uno struct senza campi propri chiude il corpo: la sua
	// ultima voce non porta virgola.
	outer := &cmodel.RecordSchema{
		Name:          "Outer",
		QualifiedName: "geo::Outer",
		Bases:         []*cmodel.RecordSchema{pointSchema()},
	}
	v := cmodel.StructValue([]*cmodel.ConstantValue{pointValue(3, 4)}, nil)
	got := Value(v, recordType(outer))
	if got != "geo::Outer(3,4)" {
		t.Fatalf("got %q", got)
	}
}

func TestEmptyBaseAfterLastContributor(t *testing.T) {
	// Una base vuota in coda non emette nulla: la base precedente è di fatto
	// l'ultimo contributore e non deve lasciare una virgola appesa.
	outer := &cmodel.RecordSchema{
		Name:          "Outer",
		QualifiedName: "geo::Outer",
		Bases:         []*cmodel.RecordSchema{pointSchema(), emptySchema("Tagless")},
	}
	v := cmodel.StructValue([]*cmodel.ConstantValue{
		pointValue(3, 4),
		cmodel.StructValue(nil, nil),
	}, nil)
	got := Value(v, recordType(outer))
	if got != "geo::Outer(3,4)" {
		t.Fatalf("got %q", got)
	}
}

func TestTwoContributingBases(t *testing.T) {
	outer := &cmodel.RecordSchema{
		Name:          "Outer",
		QualifiedName: "geo::Outer",
		Bases:         []*cmodel.RecordSchema{pointSchema(), pointSchema()},
	}
	v := cmodel.StructValue([]*cmodel.ConstantValue{
		pointValue(1, 2),
		pointValue(3, 4),
	}, nil)
	got := Value(v, recordType(outer))
	if got != "geo::Outer(1,2,3,4)" {
		t.Fatalf("got %q", got)
	}
}

func TestBaseMismatchStopsWalk(t *testing.T) {
	// Più basi nel valore che nello schema: la camminata si ferma al limite
	// dello schema invece di indicizzare oltre.
	outer := &cmodel.RecordSchema{
		Name:          "Outer",
		QualifiedName: "geo::Outer",
		Bases:         []*cmodel.RecordSchema{pointSchema()},
	}
	v := cmodel.StructValue([]*cmodel.ConstantValue{
		pointValue(1, 2),
		pointValue(9, 9),
	}, nil)
	got := Value(v, recordType(outer))
	if got != "geo::Outer(1,2)" {
		t.Fatalf("got %q", got)
	}
}

func TestAnonymousStructHasNoNamePrefix(t *testing.T) {
	anon := &cmodel.RecordSchema{
		Fields: []cmodel.SchemaField{
			{Name: "A", Type: intType()},
		},
	}
	v := cmodel.StructValue(nil, []*cmodel.ConstantValue{cmodel.Int64Value(5)})
	got := Value(v, recordType(anon))
	if got != "(5)" {
		t.Fatalf("got %q", got)
	}
}

func TestHasAnyFields(t *testing.T) {
	if HasAnyFields(nil) {
		t.Fatal("nil schema should have no fields")
	}
	if HasAnyFields(emptySchema("E")) {
		t.Fatal("empty schema should have no fields")
	}
	if !HasAnyFields(pointSchema()) {
		t.Fatal("point has fields")
	}
	inherited := &cmodel.RecordSchema{
		Name:  "Inherited",
		Bases: []*cmodel.RecordSchema{emptySchema("E"), pointSchema()},
	}
	if !HasAnyFields(inherited) {
		t.Fatal("fields via base should count")
	}
}

func TestRecordNames(t *testing.T) {
	cases := []struct {
		name string
		s    *cmodel.RecordSchema
		want string
	}{
		{"flat", pointSchema(), "X,Y"},
		{"empty", emptySchema("E"), ""},
		{
			"base and fields",
			&cmodel.RecordSchema{
				Name:  "Labeled",
				Bases: []*cmodel.RecordSchema{pointSchema()},
				Fields: []cmodel.SchemaField{
					{Name: "Label", Type: stringType()},
				},
			},
			"X,Y,Label",
		},
		{
			"trailing empty base",
			&cmodel.RecordSchema{
				Name:  "Outer",
				Bases: []*cmodel.RecordSchema{pointSchema(), emptySchema("E")},
			},
			"X,Y",
		},
		{
			"two bases",
			&cmodel.RecordSchema{
				Name:  "Outer",
				Bases: []*cmodel.RecordSchema{pointSchema(), pointSchema()},
			},
			"X,Y,X,Y",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RecordNames(tc.s); got != tc.want {
				t.Fatalf("RecordNames() = %q, want %q", got, tc.want)
			}
		})
	}
}
