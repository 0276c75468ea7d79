package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/codellm-devkit/constdump-go/internal/collect"
	appcfg "github.com/codellm-devkit/constdump-go/internal/config"
	"github.com/codellm-devkit/constdump-go/internal/diag"
	"github.com/codellm-devkit/constdump-go/internal/gosrc"
	"github.com/codellm-devkit/constdump-go/internal/loader"
	"github.com/codellm-devkit/constdump-go/internal/output"
	"github.com/codellm-devkit/constdump-go/pkg/cmodel"
)

const (
	version = "1.0.0"

	// Sezioni del dump
	dumpConstants = "constants"
	dumpTypes     = "types"
	dumpFull      = "full"
)

type config struct {
	// Flag principali
	input      string
	outputPath string
	dump       string

	// Selezione contenuti
	literals bool
	funcs    bool
	filter   string

	// Flag avanzati
	configPath   string
	checkPath    string
	includeTests bool
	excludeDirs  string
	onlyPkg      string
	verbose      bool
	quiet        bool
	showVersion  bool
}

func main() {
	cfg := parseFlags()

	// Gestisci --version
	if cfg.showVersion {
		fmt.Printf("constdump-go %s\n", version)
		os.Exit(0)
	}

	// Applica il file di configurazione sotto i flag espliciti
	if err := applyConfigFile(&cfg); err != nil {
		logError("configuration error: %v", err)
		os.Exit(2)
	}

	// Valida configurazione
	if err := validateConfig(&cfg); err != nil {
		logError("configuration error: %v", err)
		os.Exit(2)
	}

	// Esegui dump
	ok, err := runDump(cfg)
	if err != nil {
		logError("dump error: %v", err)
		os.Exit(1)
	}
	if !ok {
		// La modalità check ha trovato differenze rispetto al golden.
		os.Exit(1)
	}
}

func parseFlags() config {
	var cfg config

	// Flag principali
	flag.StringVar(&cfg.input, "input", ".", "Path to the root of the Go project to analyze")
	flag.StringVar(&cfg.input, "i", ".", "Path to the root of the Go project to analyze (shorthand)")
	flag.StringVar(&cfg.outputPath, "output", "", "Output file (omit for stdout)")
	flag.StringVar(&cfg.outputPath, "o", "", "Output file (shorthand)")
	flag.StringVar(&cfg.dump, "dump", dumpFull, "Dump sections: constants|types|full")
	flag.StringVar(&cfg.dump, "d", dumpFull, "Dump sections (shorthand)")

	// Selezione contenuti
	flag.BoolVar(&cfg.literals, "literals", true, "Classify and dump magic string literals")
	flag.BoolVar(&cfg.funcs, "funcs", true, "Evaluate zero-argument constant functions")
	flag.StringVar(&cfg.filter, "filter", "", "Boolean expression filtering declarations (e.g. 'Exported && Kind == \"enum\"')")

	// Flag avanzati
	flag.StringVar(&cfg.configPath, "config", "", "YAML configuration file with project defaults")
	flag.StringVar(&cfg.configPath, "c", "", "YAML configuration file (shorthand)")
	flag.StringVar(&cfg.checkPath, "check", "", "Compare the dump against a golden file instead of writing it")
	flag.BoolVar(&cfg.includeTests, "include-tests", false, "Include *_test.go files in analysis")
	flag.StringVar(&cfg.excludeDirs, "exclude-dirs", "", "Comma-separated directory basenames to exclude (e.g., vendor,.git)")
	flag.StringVar(&cfg.onlyPkg, "only-pkg", "", "Comma-separated package path filters (substring match)")
	flag.BoolVar(&cfg.verbose, "verbose", false, "Enable verbose logging to stderr")
	flag.BoolVar(&cfg.verbose, "v", false, "Enable verbose logging (shorthand)")
	flag.BoolVar(&cfg.quiet, "quiet", false, "Suppress all non-error output")
	flag.BoolVar(&cfg.quiet, "q", false, "Suppress non-error output (shorthand)")
	flag.BoolVar(&cfg.showVersion, "version", false, "Show version and exit")

	flag.Parse()
	return cfg
}

// applyConfigFile carica il file YAML e riempie i soli campi lasciati ai
// valori di default: i flag espliciti vincono sempre.
func applyConfigFile(cfg *config) error {
	file, err := appcfg.Load(cfg.configPath)
	if err != nil {
		return err
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if file.Root != "" && !set["input"] && !set["i"] {
		cfg.input = file.Root
	}
	if file.Output != "" && !set["output"] && !set["o"] {
		cfg.outputPath = file.Output
	}
	if file.Dump != "" && !set["dump"] && !set["d"] {
		cfg.dump = file.Dump
	}
	if file.Literals != nil && !set["literals"] {
		cfg.literals = *file.Literals
	}
	if file.Funcs != nil && !set["funcs"] {
		cfg.funcs = *file.Funcs
	}
	if file.Filter != "" && !set["filter"] {
		cfg.filter = file.Filter
	}
	if len(file.ExcludeDirs) > 0 && !set["exclude-dirs"] {
		cfg.excludeDirs = strings.Join(file.ExcludeDirs, ",")
	}
	if len(file.OnlyPkgs) > 0 && !set["only-pkg"] {
		cfg.onlyPkg = strings.Join(file.OnlyPkgs, ",")
	}
	if file.IncludeTests && !set["include-tests"] {
		cfg.includeTests = true
	}
	return nil
}

func validateConfig(cfg *config) error {
	// Valida input path
	absInput, err := filepath.Abs(cfg.input)
	if err != nil {
		return fmt.Errorf("invalid input path: %w", err)
	}
	cfg.input = absInput

	// Verifica che input esista
	if _, err := os.Stat(cfg.input); os.IsNotExist(err) {
		return fmt.Errorf("input path does not exist: %s", cfg.input)
	}

	// Valida dump mode
	switch cfg.dump {
	case dumpConstants, dumpTypes, dumpFull:
	default:
		return fmt.Errorf("invalid dump: %s (valid: constants, types, full)", cfg.dump)
	}

	// Output e check sono alternativi
	if cfg.checkPath != "" && cfg.outputPath != "" {
		return fmt.Errorf("--check and --output are mutually exclusive")
	}

	return nil
}

func runDump(cfg config) (bool, error) {
	startTime := time.Now()
	log := diag.New(cfg.verbose, cfg.quiet)

	log.Infof("Starting dump...")
	log.Infof("  Input: %s", cfg.input)
	log.Infof("  Dump: %s", cfg.dump)
	log.Infof("  Go version: %s", runtime.Version())

	// Carica pacchetti
	loaderOpts := loader.Options{
		IncludeTest: cfg.includeTests,
		ExcludeDirs: splitCSV(cfg.excludeDirs),
		OnlyPkg:     splitCSV(cfg.onlyPkg),
	}

	log.Infof("Loading packages...")
	result, err := loader.Load(cfg.input, loaderOpts)
	if err != nil {
		return false, fmt.Errorf("load packages: %w", err)
	}
	log.Infof("Loaded %d packages", len(result.Packages))

	// Converti dichiarazioni
	items, eval := gosrc.Convert(result)
	log.Infof("Converted %d declarations", len(items))

	collectCfg := collect.Config{
		Enums:     cfg.dump != dumpTypes,
		Variables: cfg.dump != dumpTypes,
		Records:   cfg.dump != dumpConstants,
		Literals:  cfg.literals && cfg.dump != dumpTypes,
		Functions: cfg.funcs && cfg.dump != dumpTypes,
		Filter:    cfg.filter,
	}

	// Modalità check: dump in memoria e confronto con il golden
	if cfg.checkPath != "" {
		var buf bytes.Buffer
		if err := emit(output.Buffer(&buf), eval, items, collectCfg, log); err != nil {
			return false, err
		}
		same, err := output.Check(os.Stderr, cfg.checkPath, buf.String())
		if err != nil {
			return false, err
		}
		if same {
			log.Infof("Dump matches %s", cfg.checkPath)
		} else {
			logWarning("dump differs from %s", cfg.checkPath)
		}
		return same, nil
	}

	// Scrivi output
	sink := output.Stdout()
	if cfg.outputPath != "" {
		sink, err = output.File(cfg.outputPath)
		if err != nil {
			return false, err
		}
	}
	if err := emit(sink, eval, items, collectCfg, log); err != nil {
		return false, err
	}

	log.Infof("Dump completed in %dms", time.Since(startTime).Milliseconds())
	return true, nil
}

// emit esegue il collector sul sink e garantisce il flush anche in caso di
// errore di scrittura.
func emit(sink *output.Sink, eval cmodel.Evaluator, items []collect.Item, cfg collect.Config, log diag.Logger) error {
	coll, err := collect.New(sink, eval, cfg, log)
	if err != nil {
		sink.Close()
		return err
	}
	runErr := coll.Run(items)
	if cerr := sink.Close(); runErr == nil {
		runErr = cerr
	}
	return runErr
}

// ============================================================================
// Helper functions
// ============================================================================

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func logWarning(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "[warning] "+format+"\n", args...)
}

func logError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "[error] "+format+"\n", args...)
}
