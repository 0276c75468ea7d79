package format

import (
	"strings"

	"github.com/codellm-devkit/constdump-go/pkg/cmodel"
)

// HasAnyFields riporta se lo schema dichiara almeno un campo, proprio o
// ereditato da una base. Decide se un record vale la pena di essere emesso e
// il piazzamento della virgola finale nelle strutture annidate.
func HasAnyFields(s *cmodel.RecordSchema) bool {
	if s == nil {
		return false
	}
	if len(s.Fields) > 0 {
		return true
	}
	for _, base := range s.Bases {
		if HasAnyFields(base) {
			return true
		}
	}
	return false
}

func anyBaseHasFields(bases []*cmodel.RecordSchema) bool {
	for _, base := range bases {
		if HasAnyFields(base) {
			return true
		}
	}
	return false
}

// writeStruct cammina basi e campi di un valore struct in lock-step con lo
// schema. Le basi contribuiscono inline al corpo della struct che le contiene
// (appiattite, senza parentesi). Il flag last si propaga: una base è l'ultimo
// contributore solo se nessuna base successiva e nessun campo proprio
// emetterebbe qualcosa, e solo se il contesto che la racchiude è a sua volta
// l'ultimo.
func writeStruct(sb *strings.Builder, v *cmodel.ConstantValue, s *cmodel.RecordSchema, last bool) {
	if s == nil {
		return
	}

	baseCount := len(v.Bases)
	fieldCount := len(v.Fields)

	for i, base := range v.Bases {
		// Il numero di basi nel valore deve combaciare con lo schema: a un
		// disallineamento la camminata si ferma invece di indicizzare oltre.
		if i >= len(s.Bases) {
			break
		}
		lastBaseWithFields := i == baseCount-1 || !anyBaseHasFields(s.Bases[i+1:])
		writeStruct(sb, base, s.Bases[i], lastBaseWithFields && fieldCount == 0 && last)
	}

	for i, field := range v.Fields {
		if i >= len(s.Fields) {
			break
		}
		writeValue(sb, field, s.Fields[i].Type)
		if !last || i < fieldCount-1 {
			sb.WriteByte(',')
		}
	}
}

// RecordNames produce il corpo nome-per-nome di uno schema, indipendente da
// qualsiasi valore concreto: stessa enumerazione basi/campi e stessa regola
// per la virgola finale della camminata con valori.
func RecordNames(s *cmodel.RecordSchema) string {
	var sb strings.Builder
	writeRecordNames(&sb, s, true)
	return sb.String()
}

func writeRecordNames(sb *strings.Builder, s *cmodel.RecordSchema, last bool) {
	if s == nil {
		return
	}

	empty := len(s.Fields) == 0
	for i, base := range s.Bases {
		lastBaseWithFields := i == len(s.Bases)-1 || !anyBaseHasFields(s.Bases[i+1:])
		writeRecordNames(sb, base, lastBaseWithFields && empty && last)
	}

	for i, field := range s.Fields {
		sb.WriteString(field.Name)
		if i < len(s.Fields)-1 || !last {
			sb.WriteByte(',')
		}
	}
}
