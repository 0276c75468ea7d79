// Package config carica il file di configurazione opzionale del tool. I flag
// da riga di comando hanno sempre la precedenza: il file fornisce solo i
// default di progetto.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
)

// File è lo schema del file YAML di configurazione.
type File struct {
	// Root del progetto da analizzare (default: directory corrente).
	Root string `yaml:"root"`

	// Output è il path del file di dump (vuoto = stdout).
	Output string `yaml:"output"`

	// Dump seleziona le sezioni: constants, types o full.
	Dump string `yaml:"dump" validate:"omitempty,oneof=constants types full"`

	// Literals abilita la classificazione dei literal stringa magic.
	Literals *bool `yaml:"literals"`

	// Funcs abilita la valutazione delle funzioni zero-argomenti.
	Funcs *bool `yaml:"funcs"`

	// Filter è l'espressione di filtro applicata a ogni dichiarazione.
	Filter string `yaml:"filter"`

	// ExcludeDirs elenca basename di directory da saltare.
	ExcludeDirs []string `yaml:"exclude_dirs"`

	// OnlyPkgs filtra i pacchetti per sottostringa del path.
	OnlyPkgs []string `yaml:"only_pkgs"`

	// IncludeTests include i pacchetti di test nel caricamento.
	IncludeTests bool `yaml:"include_tests"`
}

// Load legge e valida il file YAML. Path vuoto ritorna la configurazione
// zero senza errore.
func Load(path string) (*File, error) {
	cfg := &File{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			e := errs[0]
			return nil, fmt.Errorf("config: invalid value for %s (%s)", e.Field(), e.Tag())
		}
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
