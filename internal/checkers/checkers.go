// Package checkers contains the rules run by the analyzer on every source.
package checkers

import (
	"sort"

	"github.com/sachi/sachi-go/internal/analyzer"
	serrors "github.com/sachi/sachi-go/internal/errors"
)

const (
	// DefaultMaxCalls is the call budget of a function before R1001 reaches 0
	DefaultMaxCalls = 5
	// DefaultMaxLines is the length a function may have before R1002 decreases
	DefaultMaxLines = 50
)

// Options tunes the limits used by the checkers
type Options struct {
	MaxCalls int
	MaxLines int
}

// DefaultOptions returns the standard limits
func DefaultOptions() Options {
	return Options{
		MaxCalls: DefaultMaxCalls,
		MaxLines: DefaultMaxLines,
	}
}

var factories = map[string]func(Options) analyzer.Checker{
	"function": func(o Options) analyzer.Checker {
		return &FunctionChecker{MaxCalls: o.MaxCalls}
	},
	"readability": func(o Options) analyzer.Checker {
		return &ReadabilityChecker{MaxLines: o.MaxLines}
	},
}

// Names returns the names of all available checkers, sorted
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns every available checker configured with opts
func Default(opts Options) []analyzer.Checker {
	out, _ := ByName(Names(), opts)
	return out
}

// ByName returns the named checkers in the given order.
// An unknown name is a validation error.
func ByName(names []string, opts Options) ([]analyzer.Checker, error) {
	out := make([]analyzer.Checker, 0, len(names))
	for _, name := range names {
		factory, ok := factories[name]
		if !ok {
			return nil, serrors.ValidationErrorf("unknown checker %q (available: %v)", name, Names())
		}
		out = append(out, factory(opts))
	}
	return out, nil
}
