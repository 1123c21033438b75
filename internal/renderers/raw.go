package renderers

import (
	"bufio"
	"fmt"
	"io"

	"github.com/sachi/sachi-go/internal/report"
)

// RawRenderer prints one line per check, in report order:
//
//	<target>:<line>:<col>@<rule>:<scope>:<value>:<goal>
type RawRenderer struct{}

func (f *RawRenderer) Render(r *report.Report, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, ast := range r.Reports {
		if ast == nil {
			continue
		}
		for _, c := range ast.Checks() {
			fmt.Fprintf(bw, "%s:%d:%d@%s:%s:%.2f:%.2f\n",
				ast.Target, c.Lineno, c.Col, c.Rule, c.Scope, c.Value, c.Goal)
		}
	}
	return bw.Flush()
}
