package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/stylesearch"
)

func newTextCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "text <query>",
		Short: "Search by text description",
		Long: `Search for items matching a text description.

Multiple arguments are joined with spaces.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}
			items, err := client.SearchText(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return c.printer.Items(c.output(), items)
		},
	}
}

func newImageCmd(c *cli) *cobra.Command {
	var filters stylesearch.Filters

	cmd := &cobra.Command{
		Use:   "image <file>",
		Short: "Search by example image",
		Long: `Search for items visually similar to an image file.

The file type is detected from its contents and must be an image of at most 10MB.
Facet flags narrow the results; "All ..." values mean no constraint.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return usageErrorf("read image: %v", err)
			}

			client, err := c.client()
			if err != nil {
				return err
			}
			img := stylesearch.Image{Filename: filepath.Base(path), Data: data}
			items, err := client.SearchImage(cmd.Context(), img, filters)
			if err != nil {
				return err
			}
			return c.printer.Items(c.output(), items)
		},
	}

	cmd.Flags().StringVar(&filters.Category, "category", "", "category filter, e.g. Dresses")
	cmd.Flags().StringVar(&filters.Style, "style", "", "style filter, e.g. Minimalist")
	cmd.Flags().StringVar(&filters.Occasion, "occasion", "", "occasion filter, e.g. Date Night")
	return cmd
}

func newFacetsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "facets",
		Short: "List filter facets and their options",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return c.printer.Facets(c.output(), stylesearch.Facets())
		},
	}
}

func newHealthCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the recommendation service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}
			if err := client.Health(cmd.Context()); err != nil {
				return err
			}
			if c.output() == outputJSON {
				return c.printer.JSON(map[string]string{"status": "ok"})
			}
			_, err = fmt.Fprintln(c.printer.out, "ok")
			return err
		},
	}
}
