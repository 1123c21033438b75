// Package renderers turns analysis reports into text. Renderers are looked up
// by name in a registry so that new formats can be plugged in by callers.
package renderers

import (
	"bytes"
	"io"
	"sort"
	"sync"

	"github.com/sachi/sachi-go/internal/report"
)

// DefaultRenderer is used when no renderer is requested or the requested one is unknown
const DefaultRenderer = "raw"

// Renderer writes a report to w
type Renderer interface {
	Render(r *report.Report, w io.Writer) error
}

// Options are handed to renderer factories
type Options struct {
	// Color enables terminal styling for renderers that support it
	Color bool
}

// Factory builds a renderer for the given options
type Factory func(opts Options) Renderer

var (
	mu       sync.RWMutex
	registry = map[string]Factory{}
)

func init() {
	Register("raw", func(Options) Renderer { return &RawRenderer{} })
	Register("text", func(o Options) Renderer { return &TextRenderer{Color: o.Color} })
	Register("json", func(Options) Renderer { return &JSONRenderer{Indent: "  "} })
	Register("yaml", func(Options) Renderer { return &YAMLRenderer{} })
	Register("html", func(Options) Renderer { return &HTMLRenderer{} })
}

// Register makes a renderer available under name, replacing any previous one
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = factory
}

// Load returns the renderer registered under name
func Load(name string, opts Options) (Renderer, bool) {
	mu.RLock()
	defer mu.RUnlock()
	factory, ok := registry[name]
	if !ok {
		return nil, false
	}
	return factory(opts), true
}

// Names returns the registered renderer names, sorted
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RenderString renders r into a string
func RenderString(renderer Renderer, r *report.Report) (string, error) {
	var buf bytes.Buffer
	if err := renderer.Render(r, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
