package treequery

import "testing"

type varPayload struct{ name string }
type fnPayload struct{ name string }

func TestFindAncestorPrefersNearest(t *testing.T) {
	root := NewNode(&fnPayload{name: "outer"})
	mid := root.AddChild(NewNode(&fnPayload{name: "inner"}))
	leaf := mid.AddChild(NewNode("leaf"))

	got, ok := FindAncestor[*fnPayload](leaf, nil)
	if !ok || got.name != "inner" {
		t.Fatalf("got %+v ok=%v, want inner", got, ok)
	}
}

func TestFindAncestorSkipsOtherPayloads(t *testing.T) {
	root := NewNode(&fnPayload{name: "f"})
	mid := root.AddChild(NewNode(&varPayload{name: "v"}))
	leaf := mid.AddChild(NewNode("leaf"))

	got, ok := FindAncestor[*fnPayload](leaf, nil)
	if !ok || got.name != "f" {
		t.Fatalf("got %+v ok=%v, want f", got, ok)
	}
}

func TestFindAncestorPredicate(t *testing.T) {
	root := NewNode(&varPayload{name: "wanted"})
	mid := root.AddChild(NewNode(&varPayload{name: "skipped"}))
	leaf := mid.AddChild(NewNode("leaf"))

	got, ok := FindAncestor[*varPayload](leaf, func(v *varPayload) bool {
		return v.name != "skipped"
	})
	if !ok || got.name != "wanted" {
		t.Fatalf("got %+v ok=%v, want wanted", got, ok)
	}
}

func TestFindAncestorMissing(t *testing.T) {
	leaf := NewNode("leaf")
	if _, ok := FindAncestor[*fnPayload](leaf, nil); ok {
		t.Fatal("no ancestors, want miss")
	}
}

func TestFindAncestorMultipleParents(t *testing.T) {
	// Con più genitori vince il primo in ordine di collegamento, compresi i
	// suoi antenati, prima di passare al secondo genitore.
	shared := NewNode("shared")
	p1 := NewNode(&varPayload{name: "first"})
	p2 := NewNode(&fnPayload{name: "second"})
	p1.AddChild(shared)
	p2.AddChild(shared)

	got, ok := FindAncestor[*varPayload](shared, nil)
	if !ok || got.name != "first" {
		t.Fatalf("got %+v ok=%v", got, ok)
	}
	fn, ok := FindAncestor[*fnPayload](shared, nil)
	if !ok || fn.name != "second" {
		t.Fatalf("got %+v ok=%v", fn, ok)
	}
}

func TestFindDescendantDepthFirst(t *testing.T) {
	root := NewNode("root")
	a := root.AddChild(NewNode("a"))
	a.AddChild(NewNode(&varPayload{name: "deep"}))
	root.AddChild(NewNode(&varPayload{name: "shallow"}))

	// Il sottoalbero del primo figlio viene esaurito prima del fratello.
	got, ok := FindDescendant[*varPayload](root, nil)
	if !ok || got.name != "deep" {
		t.Fatalf("got %+v ok=%v, want deep", got, ok)
	}
}

func TestHasHelpers(t *testing.T) {
	root := NewNode(&fnPayload{name: "f"})
	leaf := root.AddChild(NewNode("leaf"))

	if !HasAncestor[*fnPayload](leaf, nil) {
		t.Fatal("want ancestor")
	}
	if HasAncestor[*varPayload](leaf, nil) {
		t.Fatal("unexpected ancestor")
	}
	if !HasDescendant[string](root, func(s string) bool { return s == "leaf" }) {
		t.Fatal("want descendant")
	}
	if HasDescendant[int](root, nil) {
		t.Fatal("unexpected descendant")
	}
}

func TestAsInterfacePayload(t *testing.T) {
	n := NewNode(&varPayload{name: "v"})
	if _, ok := As[*varPayload](n); !ok {
		t.Fatal("concrete assertion failed")
	}
	if _, ok := As[*fnPayload](n); ok {
		t.Fatal("wrong type matched")
	}
}
