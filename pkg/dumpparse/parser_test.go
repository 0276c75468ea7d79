package dumpparse

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// sampleDump è il dump completo che il collector produce per il modulo di
// esempio in testdata/fixture, più un literal a livello di scope.
const sampleDump = `enum palette::Color {
palette::Color::Red=0,
palette::Color::Green=1,
palette::Color::Blue=2,
}
palette::Greeting="hello, palette"
palette::MaxSlots=16
palette::Epsilon=5.000000e-01
palette::Enabled=true
palette::Initial='p'
palette::Point{X,Y}
palette::Labeled{X,Y,Label}
palette::DefaultLabel="origin"
#literal palette::DefaultLabel()::(literal)="origin"
palette::SlotBudget=32
#literal palette::Describe(Color)::(literal)="warm"
#literal palette::Describe(Color)::(literal)="cool"
#literal palette::Announce(...)::(literal)=":"
#literal palette::(literal)="plain"
`

func TestParseSampleDump(t *testing.T) {
	dump, err := ParseString(sampleDump, Options{Strict: true})
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	// Costanti semplici
	if v, ok := dump.Constants.Get("palette::MaxSlots"); !ok || v != int64(16) {
		t.Fatalf("MaxSlots = %#v ok=%v", v, ok)
	}
	if v, _ := dump.Constants.Get("palette::Greeting"); v != "hello, palette" {
		t.Fatalf("Greeting = %#v", v)
	}
	if v, _ := dump.Constants.Get("palette::Epsilon"); v != 0.5 {
		t.Fatalf("Epsilon = %#v", v)
	}
	if v, _ := dump.Constants.Get("palette::Enabled"); v != true {
		t.Fatalf("Enabled = %#v", v)
	}
	if v, _ := dump.Constants.Get("palette::Initial"); v != 'p' {
		t.Fatalf("Initial = %#v", v)
	}
	if v, _ := dump.Constants.Get("palette::DefaultLabel"); v != "origin" {
		t.Fatalf("DefaultLabel = %#v", v)
	}

	// Enum: blocco indicizzato e enumeratori raggiungibili come costanti
	enum, ok := dump.Enums["palette::Color"]
	if !ok {
		t.Fatal("enum palette::Color missing")
	}
	if len(enum.Enumerators) != 3 {
		t.Fatalf("enumerators = %d", len(enum.Enumerators))
	}
	if v, ok := enum.Value("Green"); !ok || v != int64(1) {
		t.Fatalf("Green = %#v ok=%v", v, ok)
	}
	if v, _ := dump.Constants.Get("palette::Color::Blue"); v != int64(2) {
		t.Fatalf("Blue via scope = %#v", v)
	}

	// Record
	if diff := cmp.Diff([]string{"X", "Y", "Label"}, dump.Records["palette::Labeled"]); diff != "" {
		t.Fatal(diff)
	}

	// Literal anonimi: progressivo per scope
	if v, ok := dump.Constants.Get("palette::Describe(Color)::`literal0"); !ok || v != "warm" {
		t.Fatalf("literal0 = %#v ok=%v", v, ok)
	}
	if v, _ := dump.Constants.Get("palette::Describe(Color)::`literal1"); v != "cool" {
		t.Fatalf("literal1 = %#v", v)
	}
	if v, _ := dump.Constants.Get("palette::`literal0"); v != "plain" {
		t.Fatalf("scope literal = %#v", v)
	}
	if v, ok := dump.Constants.Get("palette::Announce(...)::`literal0"); !ok || v != ":" {
		t.Fatalf("variadic scope literal = %#v ok=%v", v, ok)
	}
	if v, _ := dump.Constants.Get("palette::SlotBudget"); v != int64(32) {
		t.Fatalf("SlotBudget = %#v", v)
	}

	if dump.Skipped != 0 {
		t.Fatalf("Skipped = %d", dump.Skipped)
	}
}

func TestParseStrictFailsOnGarbage(t *testing.T) {
	if _, err := ParseString("not a dump line\n", Options{Strict: true}); err == nil {
		t.Fatal("want error")
	}
}

func TestParseLooseCountsSkipped(t *testing.T) {
	text := "garbage\npalette::Ok=1\nmore garbage\n"
	dump, err := ParseString(text, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if dump.Skipped != 2 {
		t.Fatalf("Skipped = %d", dump.Skipped)
	}
	if v, _ := dump.Constants.Get("palette::Ok"); v != int64(1) {
		t.Fatalf("Ok = %#v", v)
	}
}

func TestParseUnterminatedEnum(t *testing.T) {
	_, err := ParseString("enum p::E {\np::E::A=0,\n", Options{})
	if err == nil || !strings.Contains(err.Error(), "unterminated enum") {
		t.Fatalf("err = %v", err)
	}
}

func TestParseBlankLinesIgnored(t *testing.T) {
	dump, err := ParseString("\n\np::A=1\n\n", Options{Strict: true})
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := dump.Constants.Get("p::A"); v != int64(1) {
		t.Fatalf("A = %#v", v)
	}
}

func TestScopeNesting(t *testing.T) {
	s := NewScope()
	s.Set("a::b::c", int64(1))
	s.Set("a::b::d", int64(2))
	s.Set("a::e", int64(3))

	if v, ok := s.Get("a::b::c"); !ok || v != int64(1) {
		t.Fatalf("a::b::c = %#v ok=%v", v, ok)
	}
	child, ok := s.Child("a")
	if !ok {
		t.Fatal("child a missing")
	}
	if diff := cmp.Diff([]string{"b", "e"}, child.Names()); diff != "" {
		t.Fatal(diff)
	}
	if _, ok := s.Get("a::missing"); ok {
		t.Fatal("unexpected hit")
	}
	if _, ok := s.Get("a::e::deeper"); ok {
		t.Fatal("constant is not a scope")
	}
}

func TestScopeWalkOrder(t *testing.T) {
	s := NewScope()
	s.Set("z::first", int64(1))
	s.Set("a::second", int64(2))
	s.Set("third", int64(3))

	var paths []string
	s.Walk(func(path string, _ any) {
		paths = append(paths, path)
	})
	// L'ordine è quello di inserimento, non alfabetico.
	if diff := cmp.Diff([]string{"z::first", "a::second", "third"}, paths); diff != "" {
		t.Fatal(diff)
	}
}

func TestScopeOverwrite(t *testing.T) {
	s := NewScope()
	s.Set("a::b", int64(1))
	s.Set("a::b", int64(2))
	if v, _ := s.Get("a::b"); v != int64(2) {
		t.Fatalf("b = %#v", v)
	}
	child, _ := s.Child("a")
	if child.Len() != 1 {
		t.Fatalf("Len = %d", child.Len())
	}
}
