package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/conanfanli/py2ts/internal/codegen"
	"github.com/conanfanli/py2ts/internal/render"
)

// writeProfiles prints one row per registered profile. Aliases show the
// renderer they resolve to.
func writeProfiles(out io.Writer, registry *codegen.Registry) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "PROFILE\tRENDERER\tEXTENSION")

	for _, name := range registry.Profiles() {
		r, err := registry.Get(name, render.Options{})
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", name, r.Name(), r.FileExtension())
	}
	return w.Flush()
}
