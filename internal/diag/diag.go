// Package diag fornisce la capability di logging iniettata nel motore.
// Il default è un no-op a costo zero; la variante colorata replica i prefissi
// [info]/[warning] su stderr e disattiva il colore fuori da un terminale.
package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Logger è l'interfaccia di diagnostica del motore. Nessun componente core
// scrive mai sul sink di output attraverso di essa.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

// Nop è il Logger di default: scarta tutto.
type Nop struct{}

func (Nop) Debugf(string, ...any) {}
func (Nop) Infof(string, ...any)  {}
func (Nop) Warnf(string, ...any)  {}

// stderrLogger scrive su stderr con prefissi e colori.
type stderrLogger struct {
	w       io.Writer
	verbose bool
	quiet   bool

	debugc func(format string, a ...any) string
	infoc  func(format string, a ...any) string
	warnc  func(format string, a ...any) string
}

// New crea un Logger su stderr. verbose abilita Debugf e Infof, quiet
// sopprime tutto tranne i warning.
func New(verbose, quiet bool) Logger {
	l := &stderrLogger{
		w:       os.Stderr,
		verbose: verbose,
		quiet:   quiet,
		debugc:  fmt.Sprintf,
		infoc:   fmt.Sprintf,
		warnc:   fmt.Sprintf,
	}
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		l.debugc = color.HiBlackString
		l.infoc = color.CyanString
		l.warnc = color.YellowString
	}
	return l
}

func (l *stderrLogger) Debugf(format string, args ...any) {
	if !l.verbose || l.quiet {
		return
	}
	fmt.Fprintln(l.w, l.debugc("[debug] "+format, args...))
}

func (l *stderrLogger) Infof(format string, args ...any) {
	if !l.verbose || l.quiet {
		return
	}
	fmt.Fprintln(l.w, l.infoc("[info] "+format, args...))
}

func (l *stderrLogger) Warnf(format string, args ...any) {
	fmt.Fprintln(l.w, l.warnc("[warning] "+format, args...))
}
