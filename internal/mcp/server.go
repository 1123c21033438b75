// Package mcp exposes the analyzer to AI assistants as a Model Context
// Protocol server over stdio.
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/sachi/sachi-go/internal/checkers"
	"github.com/sachi/sachi-go/internal/mcp/tools"
	"github.com/sachi/sachi-go/internal/sachi"
)

// Tool names
const (
	ToolAnalyze = "sachi_analyze"
	ToolRules   = "sachi_rules"
)

// Options configure the server
type Options struct {
	Version  string
	Analysis sachi.Options
	Limits   checkers.Options
	Renderer string
	Logger   logrus.FieldLogger
}

// NewServer creates the MCP server with its tools registered
func NewServer(opts Options) *mcp.Server {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	logger = logger.WithField("component", "mcp")

	renderer := opts.Renderer
	if renderer == "" {
		renderer = "text"
	}

	server := mcp.NewServer(&mcp.Implementation{Name: "sachi", Version: opts.Version}, nil)

	analyze := tools.NewAnalyzeTool(opts.Analysis, renderer)
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolAnalyze,
		Description: "Score Python source against the coding standard and list the warnings",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in tools.AnalyzeInput) (*mcp.CallToolResult, tools.AnalyzeOutput, error) {
		out, err := analyze.Execute(ctx, in)
		if err != nil {
			logger.WithError(err).Warn("Analyze tool failed")
			return nil, tools.AnalyzeOutput{}, err
		}
		logger.WithField("target", out.Target).Debug("Analyze tool served")
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: out.Rendered}},
		}, out, nil
	})

	limits := opts.Limits
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolRules,
		Description: "List the rules of the coding standard",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in tools.RulesInput) (*mcp.CallToolResult, tools.RulesOutput, error) {
		return nil, tools.ListRules(limits), nil
	})

	return server
}

// Serve runs the server on stdin/stdout until the client disconnects or ctx is done
func Serve(ctx context.Context, opts Options) error {
	return NewServer(opts).Run(ctx, &mcp.StdioTransport{})
}
