package tools

import (
	"context"

	serrors "github.com/sachi/sachi-go/internal/errors"
	"github.com/sachi/sachi-go/internal/report"
	"github.com/sachi/sachi-go/internal/sachi"
)

// AnalyzeTool implements the sachi_analyze tool
type AnalyzeTool struct {
	opts     sachi.Options
	renderer string
}

// NewAnalyzeTool creates the tool. renderer is used when the caller does not pick one.
func NewAnalyzeTool(opts sachi.Options, renderer string) *AnalyzeTool {
	return &AnalyzeTool{opts: opts, renderer: renderer}
}

// Execute analyzes the given source, or the file at Path
func (t *AnalyzeTool) Execute(ctx context.Context, in AnalyzeInput) (AnalyzeOutput, error) {
	var (
		ast *report.ASTReport
		err error
	)

	switch {
	case in.Source != "":
		target := in.Path
		if target == "" {
			target = "<source>"
		}
		ast, err = sachi.Analyze(ctx, target, []byte(in.Source), t.opts)
	case in.Path != "":
		ast, err = sachi.AnalyzeFile(ctx, in.Path, t.opts)
	default:
		return AnalyzeOutput{}, serrors.ValidationError("source or path is required")
	}
	if err != nil {
		return AnalyzeOutput{}, err
	}

	renderer := in.Renderer
	if renderer == "" {
		renderer = t.renderer
	}

	r := report.Single(ast)
	rendered, err := sachi.Render(r, renderer, t.opts)
	if err != nil {
		return AnalyzeOutput{}, err
	}

	warnings := r.Warnings()
	if warnings == nil {
		warnings = []report.Warning{}
	}

	return AnalyzeOutput{
		Target:   ast.Target,
		Rendered: rendered,
		Summary:  r.Summary(),
		Warnings: warnings,
	}, nil
}
