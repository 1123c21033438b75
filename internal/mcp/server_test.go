package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sachi/sachi-go/internal/checkers"
	"github.com/sachi/sachi-go/internal/sachi"
)

func connect(t *testing.T) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	logger, _ := test.NewNullLogger()

	server := NewServer(Options{
		Version:  "test",
		Analysis: sachi.Options{Logger: logger},
		Limits:   checkers.DefaultOptions(),
		Renderer: "raw",
		Logger:   logger,
	})

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		cs.Close()
		ss.Wait()
	})
	return cs
}

func TestServer_ListTools(t *testing.T) {
	cs := connect(t)

	res, err := cs.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{ToolAnalyze, ToolRules}, names)
}

func TestServer_CallAnalyze(t *testing.T) {
	cs := connect(t)

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      ToolAnalyze,
		Arguments: map[string]any{"source": "def f():\n    g()\n"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.NotEmpty(t, res.Content)

	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "<source>:1:0@R1001:f:0.80:1.00")
}

func TestServer_CallAnalyze_InvalidSource(t *testing.T) {
	cs := connect(t)

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      ToolAnalyze,
		Arguments: map[string]any{"source": "def broken(:\n"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
