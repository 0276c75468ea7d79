// Package loader carica i pacchetti del progetto da analizzare con le
// annotazioni di tipo e i valori costanti già risolti dal type checker.
package loader

import (
	"fmt"
	"go/token"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"
)

// Options controlla il comportamento del loader.
type Options struct {
	IncludeTest bool
	ExcludeDirs []string // basenames da escludere
	OnlyPkg     []string // filtra per sottostringa nel path del pacchetto
}

// LoadResult è l'insieme dei pacchetti caricati, con il FileSet condiviso.
type LoadResult struct {
	Root     string
	Fset     *token.FileSet
	Packages []*packages.Package
}

// Load carica ricorsivamente i pacchetti sotto root applicando le opzioni.
// I pacchetti con errori di caricamento vengono mantenuti: il frontend estrae
// comunque quello che il checker è riuscito a risolvere.
func Load(root string, opts Options) (*LoadResult, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
			packages.NeedImports | packages.NeedDeps | packages.NeedTypes |
			packages.NeedSyntax | packages.NeedTypesInfo,
		Dir:   absRoot,
		Fset:  token.NewFileSet(),
		Tests: opts.IncludeTest,
	}

	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}

	excluded := map[string]struct{}{
		"vendor":   {},
		".git":     {},
		"testdata": {},
	}
	for _, d := range opts.ExcludeDirs {
		d = strings.TrimSpace(d)
		if d != "" {
			excluded[d] = struct{}{}
		}
	}

	kept := make([]*packages.Package, 0, len(pkgs))
	index := make(map[string]int, len(pkgs))
	for _, pkg := range pkgs {
		if pkg == nil || pkg.PkgPath == "" {
			continue
		}
		// I binari di test sintetici non portano dichiarazioni proprie.
		if strings.HasSuffix(pkg.PkgPath, ".test") {
			continue
		}
		if excludedDir(pkg, absRoot, excluded) {
			continue
		}
		if len(opts.OnlyPkg) > 0 && !matchesAny(pkg.PkgPath, opts.OnlyPkg) {
			continue
		}
		// Con Tests attivo il loader restituisce sia il pacchetto base sia la
		// sua variante aumentata dei file di test, con lo stesso PkgPath. Si
		// tiene una sola copia per path: la variante con i file di test è un
		// soprainsieme della base.
		if i, dup := index[pkg.PkgPath]; dup {
			if len(pkg.CompiledGoFiles) > len(kept[i].CompiledGoFiles) {
				kept[i] = pkg
			}
			continue
		}
		index[pkg.PkgPath] = len(kept)
		kept = append(kept, pkg)
	}

	return &LoadResult{Root: absRoot, Fset: cfg.Fset, Packages: kept}, nil
}

// excludedDir riporta se i file del pacchetto vivono in una directory esclusa
// (confronto sui basename del path relativo alla root).
func excludedDir(pkg *packages.Package, root string, excluded map[string]struct{}) bool {
	for _, f := range pkg.GoFiles {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			continue
		}
		for _, part := range strings.Split(filepath.ToSlash(filepath.Dir(rel)), "/") {
			if _, skip := excluded[part]; skip {
				return true
			}
		}
		// Basta il primo file: i file di un pacchetto condividono la directory.
		return false
	}
	return false
}

func matchesAny(path string, subs []string) bool {
	for _, s := range subs {
		s = strings.TrimSpace(s)
		if s != "" && strings.Contains(path, s) {
			return true
		}
	}
	return false
}
