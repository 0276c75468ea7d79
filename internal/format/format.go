// Package format implementa il formatter canonico dei valori costanti: la resa
// testuale deterministica di una coppia (valore, tipo) e la camminata sugli
// schemi dei record che la alimenta.
package format

import (
	"fmt"
	"strings"

	"github.com/codellm-devkit/constdump-go/pkg/cmodel"
)

const (
	charDelim   = '\''
	stringDelim = '"'
	escapeChar  = '\\'

	// NonLiteral è la sentinella emessa al posto dei tipi non rappresentabili
	// come costanti. Non è un errore: il dump prosegue con i fratelli.
	NonLiteral = "<non-literal>"
)

// Value produce la resa canonica di una coppia (valore, tipo). Due chiamate
// con la stessa coppia producono testo byte-identico.
func Value(v *cmodel.ConstantValue, t *cmodel.TypeDescriptor) string {
	var sb strings.Builder
	writeValue(&sb, v, t)
	return sb.String()
}

// writeValue è il dispatch ricorsivo del formatter.
func writeValue(sb *strings.Builder, v *cmodel.ConstantValue, t *cmodel.TypeDescriptor) {
	if v == nil || t == nil || !t.Literal {
		sb.WriteString(NonLiteral)
		return
	}

	// Le reference sono trasparenti: si formatta il tipo riferito.
	if t.Kind == cmodel.KindReference {
		writeValue(sb, v, t.Elem)
		return
	}

	if t.Kind == cmodel.KindFundamental {
		if t.Fund == cmodel.FundChar {
			if t.Width == cmodel.CharNarrow {
				// Un alias del char narrow (p.es. un alias intero a 8 bit)
				// viene reso come numero dalla resa di default qui sotto.
				if !t.IsAlias {
					sb.WriteByte(charDelim)
					writeChar(sb, v.CodePoint(), charDelim)
					sb.WriteByte(charDelim)
					return
				}
			} else {
				sb.WriteString(t.CanonicalName)
				sb.WriteByte('(')
				sb.WriteString(v.DefaultText())
				sb.WriteByte(')')
				return
			}
		}
	} else {
		// Puntatore a carattere, o array character il cui valore non è stato
		// espanso a elementi: si estrae il contenuto tra i delimitatori della
		// resa di default (che può includere annotazioni del compilatore).
		if (t.Kind == cmodel.KindPointer || (t.Kind == cmodel.KindArray && v.Kind != cmodel.ValArray)) &&
			t.Elem.IsAnyChar() {
			str := v.DefaultText()
			begin := strings.IndexByte(str, stringDelim)
			end := strings.LastIndexByte(str, stringDelim) + 1
			if begin >= 0 && end > begin {
				sb.WriteString(str[begin:end])
			} else {
				sb.WriteString(str)
			}
			return
		}

		if t.Kind == cmodel.KindArray {
			writeArray(sb, v, t)
			return
		}

		if t.Kind == cmodel.KindRecord && v.Kind == cmodel.ValStruct {
			if t.Schema != nil && t.Schema.Name != "" {
				sb.WriteString(t.Schema.QualifiedName)
			}
			sb.WriteByte('(')
			writeStruct(sb, v, t.Schema, true)
			sb.WriteByte(')')
			return
		}
	}

	// Default per tutti i tipi senza trattamento speciale (interi, float, ...).
	sb.WriteString(v.DefaultText())
}

func writeArray(sb *strings.Builder, v *cmodel.ConstantValue, t *cmodel.TypeDescriptor) {
	elem := t.Elem
	elems := v.Elems

	if elem.IsNarrowChar() && !elem.IsAlias {
		// Stringa narrow: un singolo NUL terminale implicito viene soppresso,
		// la lunghezza dichiarata in eccesso è ignorata.
		if n := len(elems); n > 0 && elems[n-1].CodePoint() == 0 {
			elems = elems[:n-1]
		}
		sb.WriteByte(stringDelim)
		for _, e := range elems {
			writeChar(sb, e.CodePoint(), stringDelim)
		}
		sb.WriteByte(stringDelim)
		return
	}
	if elem.IsAnyChar() && !elem.IsNarrowChar() {
		sb.WriteString(elem.CanonicalName)
		sb.WriteString("[]")
	}

	sb.WriteByte('(')
	for i, e := range elems {
		writeValue(sb, e, elem)
		if i < len(elems)-1 {
			sb.WriteByte(',')
		}
	}
	sb.WriteByte(')')
}

// writeChar applica la regola di escaping dei caratteri: tripla ottale per i
// code point non stampabili nell'intervallo 7-bit, backslash singolo davanti
// al delimitatore attivo e al carattere di escape, altrimenti il carattere
// così com'è.
func writeChar(sb *strings.Builder, c rune, delim byte) {
	// Il code point è troncato al byte basso prima di ogni test: l'escape
	// ottale è sempre di tre cifre esatte e rientra nella grammatica del dump.
	c = rune(byte(c))
	if c < 0x20 || c > 0x7e {
		fmt.Fprintf(sb, "%c%03o", escapeChar, c)
		return
	}
	if byte(c) == delim || c == escapeChar {
		sb.WriteByte(escapeChar)
	}
	sb.WriteRune(c)
}
