package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kailas-cloud/stylesearch"
)

// Exit codes.
const (
	exitSuccess    = 0
	exitGeneral    = 1
	exitUsageError = 2
	exitUpstream   = 3
)

const envPrefix = "STYLESEARCH"

// cli holds the flag state shared by all subcommands.
type cli struct {
	v       *viper.Viper
	printer *printer
}

func newRootCmd(stdout, stderr io.Writer) (*cobra.Command, *cli) {
	c := &cli{
		v:       viper.New(),
		printer: newPrinter(stdout, stderr),
	}

	root := &cobra.Command{
		Use:   "stylectl",
		Short: "Fashion recommendation search CLI",
		Long: `stylectl sends text or image queries to the recommendation service and
prints the normalized results.

Example usage:
  stylectl text "navy linen shirt"
  stylectl image look.jpg --category Outerwear --style Minimalist
  stylectl facets
  stylectl health

The service root is read from --base-url or STYLESEARCH_BASE_URL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return c.validate()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{msg: err.Error()}
	})

	pf := root.PersistentFlags()
	pf.String("base-url", "", "recommendation service root, e.g. https://host/prod")
	pf.Uint64("seed", 0, "seed for generated prices (default: random)")
	pf.StringP("output", "o", "table", "output format: table or json")
	pf.BoolP("verbose", "v", false, "verbose output")

	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()
	_ = c.v.BindPFlags(pf)

	root.AddCommand(
		newTextCmd(c),
		newImageCmd(c),
		newFacetsCmd(c),
		newHealthCmd(c),
		newVersionCmd(c),
	)
	return root, c
}

func (c *cli) validate() error {
	switch c.output() {
	case outputTable, outputJSON:
	default:
		return usageErrorf("invalid output format %q: must be table or json", c.output())
	}
	return nil
}

func (c *cli) output() string { return c.v.GetString("output") }

func (c *cli) logger() *slog.Logger {
	if !c.v.GetBool("verbose") {
		return nil
	}
	return slog.New(slog.NewTextHandler(c.printer.err, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// client builds an SDK client from the flags. A seed is applied only when set.
func (c *cli) client() (*stylesearch.Client, error) {
	baseURL := c.v.GetString("base-url")
	if baseURL == "" {
		return nil, usageErrorf("base URL is required: set --base-url or %s_BASE_URL", envPrefix)
	}

	opts := []stylesearch.Option{
		stylesearch.WithBaseURL(baseURL),
		stylesearch.WithUserAgent("stylectl"),
		stylesearch.WithLogger(c.logger()),
	}
	if c.v.IsSet("seed") {
		opts = append(opts, stylesearch.WithSeed(c.v.GetUint64("seed")))
	}
	return stylesearch.New(opts...)
}

// usageError marks errors caused by bad arguments or input.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usageErrorf(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func exitCode(err error) int {
	var ue *usageError
	switch {
	case err == nil:
		return exitSuccess
	case errors.As(err, &ue), errors.Is(err, stylesearch.ErrValidation):
		return exitUsageError
	case errors.Is(err, stylesearch.ErrUpstream):
		return exitUpstream
	default:
		return exitGeneral
	}
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root, c := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err != nil {
		c.printer.Error(err)
	}
	return exitCode(err)
}
