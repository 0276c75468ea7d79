package gosrc

import (
	"go/constant"
	"go/types"
	"math/big"

	"github.com/codellm-devkit/constdump-go/pkg/cmodel"
)

// typeDesc mappa un tipo del checker sul descrittore del modello. I
// descrittori sono condivisi: lo stesso types.Type produce sempre lo stesso
// puntatore.
func (c *converter) typeDesc(t types.Type) *cmodel.TypeDescriptor {
	if t == nil {
		return &cmodel.TypeDescriptor{Kind: cmodel.KindInvalid}
	}
	if d, ok := c.typeCache[t]; ok {
		return d
	}

	var d *cmodel.TypeDescriptor
	switch tt := t.(type) {
	case *types.Basic:
		d = basicDesc(tt)

	case *types.Alias:
		under := c.typeDesc(types.Unalias(tt))
		clone := *under
		clone.Name = tt.Obj().Name()
		clone.IsAlias = clone.Name != clone.CanonicalName
		d = &clone

	case *types.Named:
		if st, ok := tt.Underlying().(*types.Struct); ok {
			schema := c.schemaOf(tt, st)
			d = &cmodel.TypeDescriptor{
				Kind:          cmodel.KindRecord,
				Name:          tt.Obj().Name(),
				CanonicalName: tt.Obj().Name(),
				Schema:        schema,
			}
			c.typeCache[t] = d
			d.Literal = c.schemaLiteral(st)
			return d
		}
		under := c.typeDesc(tt.Underlying())
		clone := *under
		clone.Name = tt.Obj().Name()
		clone.IsAlias = clone.Name != clone.CanonicalName
		d = &clone

	case *types.Array:
		elem := c.typeDesc(tt.Elem())
		d = &cmodel.TypeDescriptor{
			Kind:          cmodel.KindArray,
			Name:          t.String(),
			CanonicalName: t.String(),
			Elem:          elem,
			Len:           int(tt.Len()),
			Literal:       elem.Literal,
		}

	case *types.Struct:
		d = &cmodel.TypeDescriptor{
			Kind:   cmodel.KindRecord,
			Schema: c.schemaOf(tt, tt),
		}
		c.typeCache[t] = d
		d.Literal = c.schemaLiteral(tt)
		return d

	case *types.Pointer:
		// I puntatori Go non portano valori costanti: sentinella.
		d = &cmodel.TypeDescriptor{
			Kind: cmodel.KindPointer,
			Name: t.String(),
			Elem: c.typeDesc(tt.Elem()),
		}

	default:
		// slice, map, chan, func, interface: mai rappresentabili come costanti
		d = &cmodel.TypeDescriptor{Kind: cmodel.KindInvalid, Name: t.String()}
	}

	c.typeCache[t] = d
	return d
}

// basicDesc traduce i tipi base. rune è il tipo carattere narrow del
// frontend; byte resta un alias numerico e stampa come numero.
func basicDesc(b *types.Basic) *cmodel.TypeDescriptor {
	fund := func(name, canonical string, kind cmodel.FundKind) *cmodel.TypeDescriptor {
		return &cmodel.TypeDescriptor{
			Kind:          cmodel.KindFundamental,
			Fund:          kind,
			Name:          name,
			CanonicalName: canonical,
			IsAlias:       name != canonical,
			Literal:       true,
		}
	}

	name := b.Name()
	switch b.Kind() {
	case types.Bool, types.UntypedBool:
		return fund(name, "bool", cmodel.FundBool)

	case types.Int32, types.UntypedRune:
		if name == "rune" || b.Kind() == types.UntypedRune {
			char := fund("rune", "rune", cmodel.FundChar)
			char.Width = cmodel.CharNarrow
			return char
		}
		return fund(name, "int32", cmodel.FundInt)

	case types.Int, types.Int8, types.Int16, types.Int64, types.UntypedInt:
		return fund(name, b.Name(), cmodel.FundInt)

	case types.Uint, types.Uint8, types.Uint16, types.Uint32, types.Uint64, types.Uintptr:
		canonical := name
		if name == "byte" {
			canonical = "uint8"
		}
		return fund(name, canonical, cmodel.FundUint)

	case types.Float32, types.Float64, types.UntypedFloat:
		return fund(name, b.Name(), cmodel.FundFloat)

	case types.String, types.UntypedString:
		return stringDesc()

	default:
		// complex, nil, invalid: non rappresentabili nel dump
		return &cmodel.TypeDescriptor{Kind: cmodel.KindFundamental, Name: name}
	}
}

var (
	sharedNarrowChar = &cmodel.TypeDescriptor{
		Kind:          cmodel.KindFundamental,
		Fund:          cmodel.FundChar,
		Width:         cmodel.CharNarrow,
		Name:          "rune",
		CanonicalName: "rune",
		Literal:       true,
	}
	sharedString = &cmodel.TypeDescriptor{
		Kind:          cmodel.KindPointer,
		Name:          "string",
		CanonicalName: "string",
		Literal:       true,
		Elem:          sharedNarrowChar,
	}
)

// stringDesc è il descrittore del tipo string: puntatore a carattere narrow,
// così il formatter imbocca il percorso di estrazione tra virgolette.
func stringDesc() *cmodel.TypeDescriptor { return sharedString }

// schemaOf costruisce (e condivide) lo schema di un record. I campi embedded
// il cui tipo è a sua volta un record diventano basi; tutti gli altri campi
// restano campi propri.
func (c *converter) schemaOf(key types.Type, st *types.Struct) *cmodel.RecordSchema {
	if s, ok := c.schemaCache[key]; ok {
		return s
	}

	s := &cmodel.RecordSchema{}
	if named, ok := key.(*types.Named); ok {
		s.Name = named.Obj().Name()
		s.QualifiedName = c.qualifyObj(named.Obj())
	}
	c.schemaCache[key] = s

	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if f.Embedded() {
			ft := types.Unalias(f.Type())
			if named, ok := ft.(*types.Named); ok {
				if baseStruct, ok := named.Underlying().(*types.Struct); ok {
					s.Bases = append(s.Bases, c.schemaOf(named, baseStruct))
					continue
				}
			}
		}
		s.Fields = append(s.Fields, cmodel.SchemaField{
			Name: f.Name(),
			Type: c.typeDesc(f.Type()),
		})
	}
	return s
}

// schemaLiteral riporta se ogni campo (proprio o di base) ha tipo literal.
func (c *converter) schemaLiteral(st *types.Struct) bool {
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if f.Embedded() {
			ft := types.Unalias(f.Type())
			if named, ok := ft.(*types.Named); ok {
				if baseStruct, ok := named.Underlying().(*types.Struct); ok {
					if !c.schemaLiteral(baseStruct) {
						return false
					}
					continue
				}
			}
		}
		if !c.typeDesc(f.Type()).Literal {
			return false
		}
	}
	return true
}

// constValue converte un valore del valutatore go/constant nel modello.
// Ritorna nil per i kind che il dump non rappresenta.
func constValue(v constant.Value) *cmodel.ConstantValue {
	if v == nil {
		return nil
	}
	switch v.Kind() {
	case constant.Bool:
		return cmodel.BoolValue(constant.BoolVal(v))
	case constant.String:
		return cmodel.StringValue(constant.StringVal(v), "")
	case constant.Int:
		if i, exact := constant.Int64Val(v); exact {
			return cmodel.Int64Value(i)
		}
		if bi, ok := constant.Val(v).(*big.Int); ok {
			return cmodel.IntValue(new(big.Int).Set(bi))
		}
		return nil
	case constant.Float:
		f, _ := constant.Float64Val(v)
		return cmodel.FloatValue(f)
	default:
		return nil
	}
}
