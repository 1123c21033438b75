package main

import (
	"io"
	"os"
	"strconv"

	"golang.org/x/term"

	"github.com/sachi/sachi-go/internal/cache"
	"github.com/sachi/sachi-go/internal/checkers"
	serrors "github.com/sachi/sachi-go/internal/errors"
	"github.com/sachi/sachi-go/internal/sachi"
)

// limits returns the checker limits from the configuration
func limits() checkers.Options {
	return checkers.Options{
		MaxCalls: cfg.Rules.MaxCalls,
		MaxLines: cfg.Rules.MaxLines,
	}
}

// analysisOptions builds the library options from the configuration.
// The returned function releases the cache.
func analysisOptions(useCache bool) (sachi.Options, func(), error) {
	cs, err := checkers.ByName(cfg.Checkers, limits())
	if err != nil {
		return sachi.Options{}, nil, err
	}

	opts := sachi.Options{
		Checkers: cs,
		Workers:  cfg.Workers,
		Logger:   logger,
	}
	release := func() {}

	if useCache && cfg.Cache.Enabled {
		m, err := openCache()
		if err != nil {
			// Analysis still works without a cache
			logger.WithError(err).Warn("Cache unavailable")
		} else {
			opts.Cache = m
			release = func() { m.Close() }
		}
	}

	return opts, release, nil
}

// openCache opens the configured cache. Entries are only shared between runs
// using the same checkers and limits.
func openCache() (*cache.Manager, error) {
	parts := append([]string{Version}, cfg.Checkers...)
	parts = append(parts, strconv.Itoa(cfg.Rules.MaxCalls), strconv.Itoa(cfg.Rules.MaxLines))

	return cache.Open(cfg.Cache.Path, cache.Options{
		TTL:         cfg.Cache.TTL,
		Fingerprint: cache.Fingerprint(parts...),
		Logger:      logger,
	})
}

// useColor reports whether styled output can be written to w
func useColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// writeOutput writes content to path, or to w when path is empty
func writeOutput(w io.Writer, path, content string) error {
	if path == "" {
		_, err := io.WriteString(w, content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return serrors.FileSystemErrorf(err, "failed to write report %s", path)
	}
	logger.WithField("output", path).Info("Report written")
	return nil
}

// rendererName resolves the renderer flag against the configuration
func rendererName(flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.Renderer
}
