package renderers

import (
	"encoding/json"
	"io"

	"github.com/sachi/sachi-go/internal/report"
)

// JSONRenderer outputs the full report tree with a summary, for tooling
type JSONRenderer struct {
	Indent string
}

func (f *JSONRenderer) Render(r *report.Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	if f.Indent != "" {
		enc.SetIndent("", f.Indent)
	}
	return enc.Encode(newDocument(r))
}
