package renderers

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/sachi/sachi-go/internal/report"
)

// YAMLRenderer outputs the same document as JSONRenderer, YAML-encoded
type YAMLRenderer struct{}

func (f *YAMLRenderer) Render(r *report.Report, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newDocument(r)); err != nil {
		return err
	}
	return enc.Close()
}
