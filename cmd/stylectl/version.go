package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/stylesearch/internal/version"
)

func newVersionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if c.output() == outputJSON {
				return c.printer.JSON(map[string]string{
					"version":   version.Version,
					"commit":    version.Commit,
					"built":     version.Date,
					"goVersion": runtime.Version(),
				})
			}
			w := c.printer.out
			_, _ = fmt.Fprintf(w, "stylectl %s\n", version.String())
			_, _ = fmt.Fprintf(w, "  commit:     %s\n", version.Commit)
			_, _ = fmt.Fprintf(w, "  built:      %s\n", version.Date)
			_, err := fmt.Fprintf(w, "  go version: %s\n", runtime.Version())
			return err
		},
	}
}
