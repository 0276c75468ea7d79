// Package output gestisce il sink testuale del dump: stdout o file, con
// flush garantito, più la modalità di confronto contro un dump golden.
package output

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Sink è la destinazione delle righe di dump. Close scarica il buffer e, per
// i file, chiude il descriptor: va sempre chiamato, anche dopo un errore di
// scrittura.
type Sink struct {
	w      *bufio.Writer
	closer io.Closer
}

// Stdout crea un sink bufferizzato su standard output.
func Stdout() *Sink {
	return &Sink{w: bufio.NewWriter(os.Stdout)}
}

// File crea un sink su path, creando le directory intermedie se mancano.
func File(path string) (*Sink, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	return &Sink{w: bufio.NewWriter(f), closer: f}, nil
}

// Buffer crea un sink in memoria, per i test e la modalità check.
func Buffer(buf *bytes.Buffer) *Sink {
	return &Sink{w: bufio.NewWriter(buf)}
}

func (s *Sink) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

// Close scarica il buffer e chiude l'eventuale file sottostante.
func (s *Sink) Close() error {
	ferr := s.w.Flush()
	if s.closer != nil {
		if cerr := s.closer.Close(); ferr == nil {
			ferr = cerr
		}
	}
	return ferr
}

// Check confronta il dump prodotto con il contenuto di un file golden.
// Ritorna false se i due testi differiscono; il diff leggibile va su w.
func Check(w io.Writer, goldenPath string, got string) (bool, error) {
	want, err := os.ReadFile(goldenPath)
	if err != nil {
		return false, fmt.Errorf("read golden: %w", err)
	}
	if string(want) == got {
		return true, nil
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(want), got, false)
	dmp.DiffCleanupSemantic(diffs)
	fmt.Fprint(w, renderDiff(diffs))
	return false, nil
}

// renderDiff rende il diff riga-orientato: colori su terminale, prefissi
// -/+ altrimenti.
func renderDiff(diffs []diffmatchpatch.Diff) string {
	colored := isatty.IsTerminal(os.Stderr.Fd())

	var sb strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			if colored {
				sb.WriteString(color.RedString("%s", d.Text))
			} else {
				writePrefixed(&sb, d.Text, "-")
			}
		case diffmatchpatch.DiffInsert:
			if colored {
				sb.WriteString(color.GreenString("%s", d.Text))
			} else {
				writePrefixed(&sb, d.Text, "+")
			}
		case diffmatchpatch.DiffEqual:
			if colored {
				sb.WriteString(d.Text)
			} else {
				writePrefixed(&sb, d.Text, " ")
			}
		}
	}
	return sb.String()
}

func writePrefixed(sb *strings.Builder, text, prefix string) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i == len(lines)-1 && line == "" {
			break
		}
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
}
