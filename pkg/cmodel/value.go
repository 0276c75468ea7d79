package cmodel

import (
	"math/big"
	"strconv"
	"strings"
)

// ValueKind è il tag dell'unione ConstantValue.
type ValueKind int

const (
	ValInvalid ValueKind = iota
	ValInt
	ValFloat
	ValBool
	ValString
	ValArray
	ValStruct
)

// ConstantValue è un valore costante valutato dal frontend. Il campo attivo
// dipende da Kind; gli altri restano zero.
type ConstantValue struct {
	Kind ValueKind

	Int   *big.Int
	Float float64
	Bool  bool

	// Str è il contenuto della stringa senza delimitatori; StrPrefix è il
	// prefisso di codifica che il frontend antepone alla resa di default
	// (p.es. "L" o "u8" per i frontend che lo prevedono).
	Str       string
	StrPrefix string

	// Elems sono gli elementi effettivamente inizializzati di un array; la
	// lunghezza dichiarata vive nel TypeDescriptor.
	Elems []*ConstantValue

	// Bases e Fields di un valore struct, nello stesso ordine dello schema.
	Bases  []*ConstantValue
	Fields []*ConstantValue
}

// Int64Value costruisce un valore intero.
func Int64Value(v int64) *ConstantValue {
	return &ConstantValue{Kind: ValInt, Int: big.NewInt(v)}
}

// IntValue costruisce un valore intero a precisione arbitraria.
func IntValue(v *big.Int) *ConstantValue {
	return &ConstantValue{Kind: ValInt, Int: v}
}

// FloatValue costruisce un valore in virgola mobile.
func FloatValue(v float64) *ConstantValue {
	return &ConstantValue{Kind: ValFloat, Float: v}
}

// BoolValue costruisce un valore booleano.
func BoolValue(v bool) *ConstantValue {
	return &ConstantValue{Kind: ValBool, Bool: v}
}

// StringValue costruisce un valore stringa con eventuale prefisso di codifica.
func StringValue(text, prefix string) *ConstantValue {
	return &ConstantValue{Kind: ValString, Str: text, StrPrefix: prefix}
}

// ArrayValue costruisce un valore array dagli elementi inizializzati.
func ArrayValue(elems ...*ConstantValue) *ConstantValue {
	return &ConstantValue{Kind: ValArray, Elems: elems}
}

// StructValue costruisce un valore struct da basi e campi ordinati.
func StructValue(bases, fields []*ConstantValue) *ConstantValue {
	return &ConstantValue{Kind: ValStruct, Bases: bases, Fields: fields}
}

// DefaultText è la resa testuale di default del valutatore: interi in
// decimale, float in notazione scientifica, stringhe quotate con prefisso.
// Il formatter la usa per tutti i tipi che non richiedono un trattamento
// speciale.
func (v *ConstantValue) DefaultText() string {
	switch v.Kind {
	case ValInt:
		if v.Int == nil {
			return "0"
		}
		return v.Int.String()
	case ValFloat:
		return strconv.FormatFloat(v.Float, 'e', 6, 64)
	case ValBool:
		return strconv.FormatBool(v.Bool)
	case ValString:
		return v.StrPrefix + strconv.Quote(v.Str)
	case ValArray:
		var sb strings.Builder
		sb.WriteByte('(')
		for i, e := range v.Elems {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(e.DefaultText())
		}
		sb.WriteByte(')')
		return sb.String()
	case ValStruct:
		var sb strings.Builder
		sb.WriteByte('(')
		n := 0
		for _, e := range append(append([]*ConstantValue{}, v.Bases...), v.Fields...) {
			if n > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(e.DefaultText())
			n++
		}
		sb.WriteByte(')')
		return sb.String()
	}
	return ""
}

// CodePoint restituisce il code point di un valore carattere (memorizzato
// come intero, come nel valutatore a monte).
func (v *ConstantValue) CodePoint() rune {
	if v.Kind != ValInt || v.Int == nil {
		return 0
	}
	return rune(v.Int.Int64())
}
