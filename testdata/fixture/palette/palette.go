// Package palette è un campione di dichiarazioni costanti usato dai test
// end-to-end del dumper.
package palette

type Color int

const (
	Red Color = iota
	Green
	Blue
)

const (
	Greeting = "hello, palette"
	MaxSlots = 16
	Epsilon  = 0.5
	Enabled  = true
	Initial  = 'p'
)

var banner = "palette banner"

type Point struct {
	X int
	Y int
}

type Labeled struct {
	Point
	Label string
}

// Holder non è interamente literal: il campo slice lo esclude dal dump.
type Holder struct {
	Items []int
}

func DefaultLabel() string {
	return "origin"
}

func SlotBudget() int {
	return MaxSlots * 2
}

func Describe(c Color) string {
	prefix := "shade: "
	switch c {
	case Red:
		return prefix + "warm"
	default:
		return prefix + "cool"
	}
}

func Pair() (string, string) {
	first, second := "uno", "due"
	return first, second
}

func Announce(parts ...string) string {
	out := "announce"
	for _, p := range parts {
		out += ":" + p
	}
	return out
}
