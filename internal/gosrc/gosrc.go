// Package gosrc è il frontend Go: adatta l'output di go/ast e go/types al
// modello linguaggio-agnostico del dump. Il type checker fa da analisi
// semantica e go/constant da valutatore di espressioni costanti; qui si
// traducono solo i risultati.
package gosrc

import (
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/codellm-devkit/constdump-go/internal/collect"
	"github.com/codellm-devkit/constdump-go/internal/loader"
	"github.com/codellm-devkit/constdump-go/internal/treequery"
	"github.com/codellm-devkit/constdump-go/pkg/cmodel"
)

// scopeSep separa gli scope nei nomi qualificati del dump.
const scopeSep = "::"

// Convert traduce i pacchetti caricati in una sequenza di dichiarazioni in
// ordine di documento, insieme al valutatore da passare al collector.
func Convert(res *loader.LoadResult) ([]collect.Item, cmodel.Evaluator) {
	eval := NewEvaluator()

	pkgs := append([]*packages.Package{}, res.Packages...)
	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].PkgPath < pkgs[j].PkgPath })

	var items []collect.Item
	for _, pkg := range pkgs {
		if pkg.Types == nil || pkg.TypesInfo == nil {
			continue
		}
		c := &converter{
			fset:        res.Fset,
			root:        res.Root,
			pkg:         pkg,
			info:        pkg.TypesInfo,
			eval:        eval,
			typeCache:   map[types.Type]*cmodel.TypeDescriptor{},
			schemaCache: map[types.Type]*cmodel.RecordSchema{},
			specDecls:   map[*ast.ValueSpec]*cmodel.VariableDecl{},
			assignDecls: map[*ast.AssignStmt]*cmodel.VariableDecl{},
			exprDecls:   map[ast.Expr]*cmodel.VariableDecl{},
			doneSpecs:   map[*ast.ValueSpec]bool{},
			doneAssigns: map[*ast.AssignStmt]bool{},
			funcDecls:   map[*ast.FuncDecl]*cmodel.FunctionDecl{},
		}
		c.run()
		items = append(items, c.items...)
	}
	return items, eval
}

type converter struct {
	fset *token.FileSet
	root string
	pkg  *packages.Package
	info *types.Info
	eval *Evaluator

	typeCache   map[types.Type]*cmodel.TypeDescriptor
	schemaCache map[types.Type]*cmodel.RecordSchema

	specDecls   map[*ast.ValueSpec]*cmodel.VariableDecl
	assignDecls map[*ast.AssignStmt]*cmodel.VariableDecl
	exprDecls   map[ast.Expr]*cmodel.VariableDecl
	doneSpecs   map[*ast.ValueSpec]bool
	doneAssigns map[*ast.AssignStmt]bool
	funcDecls   map[*ast.FuncDecl]*cmodel.FunctionDecl

	// stato del file corrente
	fileNode *treequery.BasicNode
	nodes    map[ast.Node]*treequery.BasicNode

	items []collect.Item
}

func (c *converter) run() {
	for _, file := range c.pkg.Syntax {
		if file == nil {
			continue
		}
		c.convertFile(file)
	}
}

func (c *converter) convertFile(file *ast.File) {
	c.nodes = map[ast.Node]*treequery.BasicNode{}
	c.fileNode = treequery.NewNode(&cmodel.NamedScope{QualifiedName: c.pkg.Name})
	fname := c.relFile(file.Pos())

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			c.genDecl(d, fname)
		case *ast.FuncDecl:
			c.funcDecl(d, fname)
		}
	}
}

// genDecl processa un blocco const/var/type a livello di package, poi
// raccoglie i literal stringa contenuti negli inizializzatori.
func (c *converter) genDecl(d *ast.GenDecl, fname string) {
	switch d.Tok {
	case token.CONST:
		if enum, ok := c.enumOf(d); ok {
			c.items = append(c.items, collect.Item{Decl: enum, File: fname})
			for _, spec := range d.Specs {
				if vs, ok := spec.(*ast.ValueSpec); ok {
					c.doneSpecs[vs] = true
				}
			}
		} else {
			for _, spec := range d.Specs {
				if vs, ok := spec.(*ast.ValueSpec); ok {
					c.valueSpec(vs, true, c.pkg.Name, fname)
				}
			}
		}
	case token.VAR:
		for _, spec := range d.Specs {
			if vs, ok := spec.(*ast.ValueSpec); ok {
				c.valueSpec(vs, false, c.pkg.Name, fname)
			}
		}
	case token.TYPE:
		for _, spec := range d.Specs {
			if ts, ok := spec.(*ast.TypeSpec); ok {
				c.typeSpec(ts, fname)
			}
		}
	}
	c.walkTree(d, fname, "")
}

// enumOf riconosce un blocco const i cui enumeratori condividono tutti uno
// stesso tipo intero con nome dichiarato in questo pacchetto: l'idioma enum
// di Go.
func (c *converter) enumOf(d *ast.GenDecl) (*cmodel.EnumDecl, bool) {
	var named *types.Named
	var names []*ast.Ident

	for _, spec := range d.Specs {
		vs, ok := spec.(*ast.ValueSpec)
		if !ok {
			return nil, false
		}
		for _, name := range vs.Names {
			obj, ok := c.info.Defs[name].(*types.Const)
			if !ok {
				return nil, false
			}
			n, ok := types.Unalias(obj.Type()).(*types.Named)
			if !ok {
				return nil, false
			}
			if named == nil {
				named = n
			} else if named != n {
				return nil, false
			}
			names = append(names, name)
		}
	}
	if named == nil || named.Obj().Pkg() != c.pkg.Types {
		return nil, false
	}
	basic, ok := named.Underlying().(*types.Basic)
	if !ok || basic.Info()&types.IsInteger == 0 {
		return nil, false
	}

	enum := &cmodel.EnumDecl{
		QualifiedName: c.qualifyObj(named.Obj()),
		Underlying:    c.typeDesc(named.Underlying()),
	}
	for _, name := range names {
		obj := c.info.Defs[name].(*types.Const)
		enum.Enumerators = append(enum.Enumerators, cmodel.Enumerator{
			QualifiedName: enum.QualifiedName + scopeSep + name.Name,
			Value:         constValue(obj.Val()),
		})
	}
	return enum, true
}

// valueSpec converte le dichiarazioni di uno spec const/var. Le costanti
// sono valutabili a compile time; le var non lo sono mai (sono mutabili),
// quindi non vengono emesse ma restano nell'albero a legare i literal.
func (c *converter) valueSpec(vs *ast.ValueSpec, isConst bool, prefix, fname string) {
	c.doneSpecs[vs] = true
	for _, name := range vs.Names {
		if name.Name == "_" {
			continue
		}
		obj := c.info.Defs[name]
		if obj == nil {
			continue
		}
		vd := &cmodel.VariableDecl{
			QualifiedName: prefix + scopeSep + name.Name,
			Type:          c.typeDesc(obj.Type()),
			HasInit:       len(vs.Values) > 0 || isConst,
		}
		if k, ok := obj.(*types.Const); ok {
			vd.ConstEval = true
			vd.Value = constValue(k.Val())
		}
		if c.specDecls[vs] == nil {
			c.specDecls[vs] = vd
		}
		c.items = append(c.items, collect.Item{Decl: vd, File: fname})
	}
}

// typeSpec converte una dichiarazione di tipo struct in un RecordTypeDecl.
func (c *converter) typeSpec(ts *ast.TypeSpec, fname string) {
	if _, ok := ts.Type.(*ast.StructType); !ok {
		return
	}
	obj, ok := c.info.Defs[ts.Name].(*types.TypeName)
	if !ok || obj.IsAlias() {
		return
	}
	named, ok := obj.Type().(*types.Named)
	if !ok {
		return
	}
	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return
	}
	rd := &cmodel.RecordTypeDecl{
		QualifiedName: c.qualifyObj(obj),
		Schema:        c.schemaOf(named, st),
		HasDefinition: true,
		IsLiteral:     c.schemaLiteral(st),
	}
	c.items = append(c.items, collect.Item{Decl: rd, File: fname})
}

// funcDecl converte una funzione, prepara l'eventuale valutazione della
// chiamata zero-argomenti e cammina il corpo per costanti locali e literal.
func (c *converter) funcDecl(d *ast.FuncDecl, fname string) {
	obj, ok := c.info.Defs[d.Name].(*types.Func)
	if !ok {
		return
	}
	sig, ok := obj.Type().(*types.Signature)
	if !ok {
		return
	}

	fd := &cmodel.FunctionDecl{
		Name:          d.Name.Name,
		QualifiedName: c.funcQualified(obj, sig),
		HasBody:       d.Body != nil,
		IsTemplated:   d.Type.TypeParams != nil,
		Variadic:      sig.Variadic(),
	}
	nparams := sig.Params().Len()
	if sig.Variadic() {
		nparams-- // il parametro variadico è reso come "..." nella firma
	}
	for i := 0; i < nparams; i++ {
		fd.ParamTypes = append(fd.ParamTypes, c.typeString(sig.Params().At(i).Type()))
	}

	// Candidata alla valutazione costante: funzione libera, zero parametri,
	// un solo risultato.
	if sig.Recv() == nil && sig.Params().Len() == 0 && sig.Results().Len() == 1 {
		fd.Return = c.typeDesc(sig.Results().At(0).Type())
		if v := c.constReturn(d); v != nil {
			fd.ConstEval = true
			c.eval.calls[fd] = v
		}
	}

	c.funcDecls[d] = fd
	c.items = append(c.items, collect.Item{Decl: fd, File: fname})

	c.walkTree(d, fname, fd.QualifiedName)
}

// constReturn riconosce il corpo `return <espressione costante>` e ne estrae
// il valore piegato dal checker.
func (c *converter) constReturn(d *ast.FuncDecl) *cmodel.ConstantValue {
	if d.Body == nil || len(d.Body.List) != 1 {
		return nil
	}
	ret, ok := d.Body.List[0].(*ast.ReturnStmt)
	if !ok || len(ret.Results) != 1 {
		return nil
	}
	tv, ok := c.info.Types[ret.Results[0]]
	if !ok || tv.Value == nil {
		return nil
	}
	return constValue(tv.Value)
}

// walkTree raccoglie i literal stringa sotto n in ordine di sorgente e
// converte le dichiarazioni locali incontrate lungo il percorso. localPrefix
// è il nome qualificato della funzione che racchiude, vuoto a livello file.
func (c *converter) walkTree(n ast.Node, fname, localPrefix string) {
	var stack []ast.Node
	ast.Inspect(n, func(node ast.Node) bool {
		if node == nil {
			stack = stack[:len(stack)-1]
			return true
		}
		stack = append(stack, node)

		switch t := node.(type) {
		case *ast.ValueSpec:
			if !c.doneSpecs[t] && localPrefix != "" {
				c.valueSpec(t, c.enclosingConst(stack), localPrefix, fname)
			}
		case *ast.AssignStmt:
			if t.Tok == token.DEFINE && localPrefix != "" {
				c.shortVar(t, localPrefix)
			}
		case *ast.BasicLit:
			if t.Kind == token.STRING && !skipLiteral(stack) {
				c.literal(t, stack, fname)
			}
		}
		return true
	})
}

// shortVar lega una dichiarazione := ai suoi VariableDecl: i literal sul lato
// destro sono assegnati, non magic, e ogni posizione destra è attribuita alla
// variabile sinistra corrispondente. Le var locali non vengono mai emesse.
func (c *converter) shortVar(as *ast.AssignStmt, prefix string) {
	if c.doneAssigns[as] {
		return
	}
	c.doneAssigns[as] = true
	matched := len(as.Lhs) == len(as.Rhs)
	for i, lhs := range as.Lhs {
		ident, ok := lhs.(*ast.Ident)
		if !ok || ident.Name == "_" {
			continue
		}
		obj := c.info.Defs[ident]
		if obj == nil {
			continue
		}
		vd := &cmodel.VariableDecl{
			QualifiedName: prefix + scopeSep + ident.Name,
			Type:          c.typeDesc(obj.Type()),
			HasInit:       true,
		}
		if matched {
			c.exprDecls[as.Rhs[i]] = vd
			continue
		}
		// Assegnazione da tupla: un solo valore destro per tutte le variabili,
		// lo statement intero si lega alla prima dichiarata.
		if c.assignDecls[as] == nil {
			c.assignDecls[as] = vd
		}
	}
}

// enclosingConst riporta se lo spec in cima allo stack vive in un blocco const.
func (c *converter) enclosingConst(stack []ast.Node) bool {
	for i := len(stack) - 1; i >= 0; i-- {
		if gd, ok := stack[i].(*ast.GenDecl); ok {
			return gd.Tok == token.CONST
		}
	}
	return false
}

// literal registra un literal stringa e lo aggancia all'albero dei nodi per
// la classificazione magic/bound.
func (c *converter) literal(lit *ast.BasicLit, stack []ast.Node, fname string) {
	text, err := strconv.Unquote(lit.Value)
	if err != nil {
		text = lit.Value
	}
	pos := c.fset.Position(lit.Pos())
	sl := &cmodel.StringLiteral{
		Raw:          text,
		IsNarrow:     true,
		Type:         stringDesc(),
		File:         filepath.Base(pos.Filename),
		InDependency: !strings.HasPrefix(pos.Filename, c.root),
	}
	parent := c.chainNodes(stack)
	litNode := treequery.NewNode(sl)
	parent.AddChild(litNode)
	c.items = append(c.items, collect.Item{Decl: sl, Node: litNode, File: fname})
}

// chainNodes materializza (e riusa) i nodi degli antenati con payload del
// literal corrente: file, funzione che racchiude, spec di valore, posizione
// destra di una dichiarazione :=. Il literal stesso può essere la posizione
// destra, quindi lo stack si percorre per intero.
func (c *converter) chainNodes(stack []ast.Node) *treequery.BasicNode {
	current := c.fileNode
	for _, n := range stack {
		switch t := n.(type) {
		case *ast.FuncDecl:
			if fd := c.funcDecls[t]; fd != nil {
				current = c.nodeFor(n, fd, current)
			}
		case *ast.ValueSpec:
			if vd := c.specDecls[t]; vd != nil {
				current = c.nodeFor(n, vd, current)
			}
		case *ast.AssignStmt:
			if vd := c.assignDecls[t]; vd != nil {
				current = c.nodeFor(n, vd, current)
			}
		default:
			if expr, ok := n.(ast.Expr); ok {
				if vd := c.exprDecls[expr]; vd != nil {
					current = c.nodeFor(n, vd, current)
				}
			}
		}
	}
	return current
}

func (c *converter) nodeFor(n ast.Node, payload any, parent *treequery.BasicNode) *treequery.BasicNode {
	if bn, ok := c.nodes[n]; ok {
		return bn
	}
	bn := treequery.NewNode(payload)
	parent.AddChild(bn)
	c.nodes[n] = bn
	return bn
}

// skipLiteral esclude i literal che non sono espressioni: path di import e
// tag di struct.
func skipLiteral(stack []ast.Node) bool {
	if len(stack) < 2 {
		return false
	}
	lit := stack[len(stack)-1]
	switch parent := stack[len(stack)-2].(type) {
	case *ast.ImportSpec:
		return true
	case *ast.Field:
		return parent.Tag == lit
	}
	return false
}

// funcQualified costruisce il nome qualificato di una funzione o metodo.
func (c *converter) funcQualified(obj *types.Func, sig *types.Signature) string {
	if recv := sig.Recv(); recv != nil {
		rt := recv.Type()
		if p, ok := rt.(*types.Pointer); ok {
			rt = p.Elem()
		}
		if named, ok := types.Unalias(rt).(*types.Named); ok {
			return c.qualifyObj(named.Obj()) + scopeSep + obj.Name()
		}
	}
	return c.qualifyObj(obj)
}

func (c *converter) qualifyObj(obj types.Object) string {
	if obj.Pkg() != nil {
		return obj.Pkg().Name() + scopeSep + obj.Name()
	}
	return obj.Name()
}

// typeString rende un tipo come scritto nel pacchetto corrente.
func (c *converter) typeString(t types.Type) string {
	return types.TypeString(t, func(p *types.Package) string {
		if p == c.pkg.Types {
			return ""
		}
		return p.Name()
	})
}

func (c *converter) relFile(pos token.Pos) string {
	f := c.fset.Position(pos).Filename
	if rel, err := filepath.Rel(c.root, f); err == nil {
		return filepath.ToSlash(rel)
	}
	return f
}
