package dumpparse

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Decoder trasforma gli argomenti di un costruttore con nome nel valore
// finale. I costruttori sconosciuti degradano a tupla.
type Decoder func(args []any) (any, error)

// decoders registra i costruttori riconosciuti per nome di tipo. rune copre
// i caratteri emessi in forma numerica costruita.
var decoders = map[string]Decoder{
	"rune":  decodeChar,
	"int32": decodeChar,
}

// RegisterDecoder aggiunge o sostituisce il decoder di un costruttore.
func RegisterDecoder(name string, d Decoder) {
	decoders[name] = d
}

func decodeChar(args []any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("char constructor: want 1 arg, got %d", len(args))
	}
	switch v := args[0].(type) {
	case int64:
		return rune(v), nil
	case rune:
		return v, nil
	default:
		return nil, fmt.Errorf("char constructor: unexpected arg %T", args[0])
	}
}

// ParseValue interpreta il testo di un valore del dump: bool, intero, float,
// stringa o carattere quotati, tupla, array o costruttore con nome.
func ParseValue(text string) (any, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty value")
	}

	switch text {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}

	switch text[0] {
	case '"':
		s, err := strconv.Unquote(text)
		if err != nil {
			return nil, fmt.Errorf("string %q: %w", text, err)
		}
		return s, nil
	case '\'':
		s, err := strconv.Unquote(text)
		if err != nil {
			return nil, fmt.Errorf("char %q: %w", text, err)
		}
		r := []rune(s)
		if len(r) != 1 {
			return nil, fmt.Errorf("char %q: not a single rune", text)
		}
		return r[0], nil
	case '(':
		if !strings.HasSuffix(text, ")") {
			return nil, fmt.Errorf("unterminated tuple %q", text)
		}
		return parseTuple(text[1 : len(text)-1])
	}

	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return i, nil
	}
	if bi, ok := new(big.Int).SetString(text, 10); ok {
		return bi, nil
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f, nil
	}

	if open := strings.IndexByte(text, '('); open > 0 && strings.HasSuffix(text, ")") {
		return parseConstructed(text[:open], text[open+1:len(text)-1])
	}
	return nil, fmt.Errorf("unrecognized value %q", text)
}

// parseConstructed gestisce `Name(args)` e `Name[](args)`. Il suffisso []
// marca un array tipizzato; senza decoder registrato il risultato è la tupla
// degli argomenti.
func parseConstructed(name, inner string) (any, error) {
	name = strings.TrimSpace(removeTemplates(name))
	isArray := strings.HasSuffix(name, "[]")
	if isArray {
		name = strings.TrimSuffix(name, "[]")
	}

	args, err := parseTuple(inner)
	if err != nil {
		return nil, err
	}
	if isArray {
		return args, nil
	}
	if d, ok := decoders[name]; ok {
		return d(args)
	}
	return args, nil
}

// parseTuple spezza sulle virgole di primo livello e parsa ogni elemento.
func parseTuple(inner string) ([]any, error) {
	parts := splitTop(inner, ',')
	out := make([]any, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		v, err := ParseValue(p)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// splitTop divide su sep ignorando le occorrenze dentro parentesi di ogni
// tipo e dentro stringhe o caratteri quotati.
func splitTop(s string, sep byte) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// removeTemplates elimina gli argomenti template <...> da un nome di tipo,
// rispettando l'annidamento.
func removeTemplates(name string) string {
	var sb strings.Builder
	depth := 0
	for i := 0; i < len(name); i++ {
		switch name[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
				continue
			}
			sb.WriteByte(name[i])
		default:
			if depth == 0 {
				sb.WriteByte(name[i])
			}
		}
	}
	return sb.String()
}
