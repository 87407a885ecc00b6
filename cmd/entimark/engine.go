package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/entimark/entimark/pkg/grammar"
	"github.com/entimark/entimark/pkg/scanner"
)

// engineFlags are the grammar and option flags shared by every command that
// compiles a grammar.
type engineFlags struct {
	grammars    []string
	options     []string
	optionsFile string
	include     string
	exclude     string
}

func (f *engineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.grammars, "grammar", "g", nil, "Grammar file or URL (repeatable)")
	cmd.Flags().StringArrayVarP(&f.options, "option", "O", nil, "Engine option as key=value (repeatable)")
	cmd.Flags().StringVar(&f.optionsFile, "options-file", "", "YAML file of engine options")
	cmd.Flags().StringVar(&f.include, "include", "", "Include entities with ids matching regex pattern (comma-separated)")
	cmd.Flags().StringVar(&f.exclude, "exclude", "", "Exclude entities with ids matching regex pattern (comma-separated)")
}

// reset restores the defaults. Tests drive the commands through package
// level state.
func (f *engineFlags) reset() {
	*f = engineFlags{}
}

// engineOptions merges the options file with the --option flags, which win.
func (f *engineFlags) engineOptions() (scanner.Options, error) {
	var fromFile map[string]string
	if f.optionsFile != "" {
		m, err := scanner.LoadOptionsFile(f.optionsFile)
		if err != nil {
			return scanner.Options{}, err
		}
		fromFile = m
	}

	fromFlags := make(map[string]string, len(f.options))
	for _, kv := range f.options {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return scanner.Options{}, fmt.Errorf("invalid option %q: want key=value", kv)
		}
		fromFlags[strings.TrimSpace(key)] = value
	}

	return scanner.ParseOptions(scanner.MergeOptions(fromFile, fromFlags))
}

func (f *engineFlags) filter() grammar.FilterConfig {
	return grammar.FilterConfig{
		Include: grammar.ParsePatterns(f.include),
		Exclude: grammar.ParsePatterns(f.exclude),
	}
}

// loadGrammars opens every --grammar location.
func (f *engineFlags) loadGrammars(ctx context.Context) ([]*grammar.Grammar, error) {
	if len(f.grammars) == 0 {
		return nil, fmt.Errorf("no grammar given (use --grammar)")
	}
	grammars := make([]*grammar.Grammar, 0, len(f.grammars))
	for _, location := range f.grammars {
		g, err := grammar.Open(ctx, location)
		if err != nil {
			return nil, fmt.Errorf("loading grammar %s: %w", location, err)
		}
		grammars = append(grammars, g)
	}
	return grammars, nil
}

// newCore loads the grammars and compiles them with the flag options.
func (f *engineFlags) newCore(cmd *cobra.Command, coreOpts ...scanner.CoreOption) (*scanner.Core, error) {
	opts, err := f.engineOptions()
	if err != nil {
		return nil, err
	}
	grammars, err := f.loadGrammars(commandContext(cmd))
	if err != nil {
		return nil, err
	}

	coreOpts = append([]scanner.CoreOption{
		scanner.WithLogger(newLogger(cmd.ErrOrStderr())),
		scanner.WithFilter(f.filter()),
	}, coreOpts...)
	return scanner.NewCoreFromGrammars(grammars, opts, coreOpts...)
}

// commandContext returns the command's context, or Background when the
// command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
