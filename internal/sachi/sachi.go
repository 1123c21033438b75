// Package sachi is the library entry point: it parses Python sources, runs
// the checkers on them and renders the resulting reports.
//
//	r, err := sachi.AnalyzeTargets(ctx, []string{"app/"}, sachi.Options{})
//	out, err := sachi.Render(r, "text", sachi.Options{})
package sachi

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/sachi/sachi-go/internal/analyzer"
	"github.com/sachi/sachi-go/internal/checkers"
	serrors "github.com/sachi/sachi-go/internal/errors"
	"github.com/sachi/sachi-go/internal/ingestion"
	"github.com/sachi/sachi-go/internal/renderers"
	"github.com/sachi/sachi-go/internal/report"
	"github.com/sachi/sachi-go/internal/treesitter"
)

// StdinTarget names a source read from standard input
const StdinTarget = "<stdin>"

// Loader turns a target into the source code to analyze
type Loader func(ctx context.Context, target string) ([]byte, error)

// Cache stores reports by source content
type Cache interface {
	Get(source []byte) (*report.ASTReport, bool)
	Put(source []byte, r *report.ASTReport) error
}

// Options configure an analysis. The zero value runs the default checkers
// on files with one worker per CPU.
type Options struct {
	// Checkers run on every source; nil means checkers.Default.
	// They are shared between workers and must not keep per-source state.
	Checkers []analyzer.Checker
	// Loader reads targets; nil means LoadFile
	Loader Loader
	// Workers bounds AnalyzeTargets concurrency; zero means GOMAXPROCS
	Workers int
	// Timeout bounds the analysis of a single target; zero means none
	Timeout time.Duration
	// Cache is consulted before parsing when set
	Cache Cache
	// Color is passed to renderers that support styling
	Color  bool
	Logger logrus.FieldLogger
}

func (o Options) checkers() []analyzer.Checker {
	if o.Checkers == nil {
		return checkers.Default(checkers.DefaultOptions())
	}
	return o.Checkers
}

func (o Options) loader() Loader {
	if o.Loader == nil {
		return LoadFile
	}
	return o.Loader
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger == nil {
		return logrus.StandardLogger()
	}
	return o.Logger
}

// LoadFile reads target as a file path
func LoadFile(ctx context.Context, target string) ([]byte, error) {
	data, err := os.ReadFile(target)
	if err != nil {
		return nil, serrors.FileSystemErrorf(err, "failed to read %s", target)
	}
	return data, nil
}

// LoadString uses target itself as the source code
func LoadString(ctx context.Context, target string) ([]byte, error) {
	return []byte(target), nil
}

// Walk runs the checkers over an already parsed tree
func Walk(ctx context.Context, root *sitter.Node, source []byte, target string, opts Options) (*report.ASTReport, error) {
	return analyzer.New(opts.checkers()...).Visit(ctx, root, source, target)
}

// Analyze parses source and walks it. The cache, when configured, is
// consulted first and filled afterwards.
func Analyze(ctx context.Context, target string, source []byte, opts Options) (*report.ASTReport, error) {
	start := time.Now()
	log := opts.logger().WithField("target", target)

	if opts.Cache != nil {
		if cached, ok := opts.Cache.Get(source); ok {
			cached.Target = target
			log.Debug("Cache hit")
			return cached, nil
		}
	}

	lp, err := treesitter.NewLanguageParser(treesitter.LanguagePython)
	if err != nil {
		return nil, err
	}
	defer lp.Close()

	tree, err := lp.Parse(ctx, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	ast, err := Walk(ctx, tree.RootNode(), source, target, opts)
	if err != nil {
		return nil, err
	}

	if opts.Cache != nil {
		if err := opts.Cache.Put(source, ast); err != nil {
			log.WithError(err).Warn("Failed to cache report")
		}
	}

	log.WithFields(logrus.Fields{
		"duration":  time.Since(start),
		"functions": ast.Count(report.KindFunction),
	}).Debug("Analyzed target")

	return ast, nil
}

// AnalyzeFile loads target with the configured loader and analyzes it
func AnalyzeFile(ctx context.Context, target string, opts Options) (*report.ASTReport, error) {
	source, err := opts.loader()(ctx, target)
	if err != nil {
		return nil, err
	}
	return Analyze(ctx, target, source, opts)
}

// AnalyzeTargets analyzes every target concurrently. Reports keep the order
// of targets. A target that cannot be loaded or parsed is recorded in
// Report.Errors and does not stop the others; only context cancellation
// and fatal errors abort the run.
func AnalyzeTargets(ctx context.Context, targets []string, opts Options) (*report.Report, error) {
	log := opts.logger()
	start := time.Now()

	// Build the checkers once so that every worker shares them
	opts.Checkers = opts.checkers()

	cfg := ingestion.DefaultProcessorConfig()
	if opts.Workers > 0 {
		cfg.Workers = opts.Workers
	}
	cfg.Timeout = opts.Timeout
	processor := ingestion.NewProcessor(cfg)

	reports := make([]*report.ASTReport, len(targets))
	errs := make([]error, len(targets))

	err := processor.Process(ctx, targets, func(ctx context.Context, i int, target string) error {
		ast, err := AnalyzeFile(ctx, target, opts)
		if err != nil {
			if ctx.Err() != nil && ctx.Err() != context.DeadlineExceeded {
				return ctx.Err()
			}
			if serrors.IsFatal(err) {
				return err
			}
			log.WithError(err).WithFields(logrus.Fields{
				"target":   target,
				"severity": serrors.GetSeverity(err).String(),
			}).Warn("Failed to analyze target")
			errs[i] = err
			return nil
		}
		reports[i] = ast
		return nil
	})
	if err != nil {
		return nil, err
	}

	r := &report.Report{Targets: targets}
	for i, target := range targets {
		if errs[i] != nil {
			r.Errors = append(r.Errors, report.TargetError{Target: target, Err: errs[i]})
			continue
		}
		if reports[i] != nil {
			r.Reports = append(r.Reports, reports[i])
		}
	}

	log.WithFields(logrus.Fields{
		"targets":  len(targets),
		"errors":   len(r.Errors),
		"workers":  processor.Workers(),
		"duration": time.Since(start),
	}).Info("Analysis complete")

	return r, nil
}

// Render renders r with the named renderer. An unknown renderer falls back
// to raw.
func Render(r *report.Report, name string, opts Options) (string, error) {
	if name == "" {
		name = renderers.DefaultRenderer
	}

	renderer, ok := renderers.Load(name, renderers.Options{Color: opts.Color})
	if !ok {
		opts.logger().WithField("renderer", name).Warn("Unknown renderer, falling back to raw")
		renderer, _ = renderers.Load(renderers.DefaultRenderer, renderers.Options{Color: opts.Color})
	}

	return renderers.RenderString(renderer, r)
}

// Run analyzes source and renders the report
func Run(ctx context.Context, target string, source []byte, renderer string, opts Options) (string, error) {
	ast, err := Analyze(ctx, target, source, opts)
	if err != nil {
		return "", err
	}
	return Render(report.Single(ast), renderer, opts)
}
