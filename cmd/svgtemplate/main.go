// Command svgtemplate lists the editable fields of a drawing template
// and renders it with given field values.
//
// Usage:
//
//	svgtemplate fields A4_Landscape.svg
//	svgtemplate render A4_Landscape.svg -f fields.yaml -o page.svg
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/benoitkugler/svgtemplate/svgtemplate"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	logLevel string
	strict   bool
}

func (o options) errorMode() svgtemplate.ErrorMode {
	if o.strict {
		return svgtemplate.StrictErrorMode
	}
	return svgtemplate.WarnErrorMode
}

func (o options) setupLogger(w io.Writer) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.logLevel)); err != nil {
		return fmt.Errorf("invalid log level %q", o.logLevel)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return nil
}

func newRootCmd() *cobra.Command {
	var opts options
	root := &cobra.Command{
		Use:          "svgtemplate",
		Short:        "Fill the editable texts of SVG drawing templates",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setupLogger(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&opts.strict, "strict", false, "fail on unreadable or invalid templates")

	root.AddCommand(newFieldsCmd(&opts), newRenderCmd(&opts))
	return root
}

func newFieldsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "fields TEMPLATE",
		Short: "Print the editable fields of a template, as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := svgtemplate.LoadEditableFieldsFile(args[0], opts.errorMode())
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(fields)
		},
	}
}

// loadValues reads a YAML mapping of field values.
func loadValues(filename string) (svgtemplate.Fields, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading field values: %w", err)
	}
	var values svgtemplate.Fields
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parsing field values %s: %w", filename, err)
	}
	return values, nil
}

func newRenderCmd(opts *options) *cobra.Command {
	var valuesFile, output string
	cmd := &cobra.Command{
		Use:   "render TEMPLATE",
		Short: "Fill a template with the given values and print the SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var values svgtemplate.Fields
			if valuesFile != "" {
				var err error
				values, err = loadValues(valuesFile)
				if err != nil {
					return err
				}
			}

			res, err := svgtemplate.RenderFile(args[0], values, opts.errorMode())
			if err != nil {
				return err
			}
			slog.Info("rendered template", "path", args[0],
				"width", res.Width, "height", res.Height, "orientation", res.Orientation.String())

			if output == "" {
				_, err = io.WriteString(cmd.OutOrStdout(), res.SVG)
				return err
			}
			return os.WriteFile(output, []byte(res.SVG), 0o644)
		},
	}
	cmd.Flags().StringVarP(&valuesFile, "fields", "f", "", "YAML file of field values")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
