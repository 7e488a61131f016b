package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Alia5/padmapper/display"

	"github.com/alecthomas/kong"
)

type Displays struct {
	JSON bool `help:"Print the layout as JSON"`
}

func (d *Displays) Run(kctx *kong.Context) error {
	return d.write(kctx.Stdout, display.Screens{})
}

func (d *Displays) write(w io.Writer, p display.Provider) error {
	rects, err := p.Displays()
	if err != nil {
		return err
	}
	if d.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rects)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tBOUNDS\tCENTER")
	for i, r := range rects {
		c := r.Center()
		mark := ""
		if i == 0 {
			mark = " (pointer starts here)"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d,%d%s\n", i, r, c.X, c.Y, mark)
	}
	return tw.Flush()
}
