package main

import (
	"github.com/spf13/cobra"

	"github.com/SusanDoggie/go-bbcode/pkg/bbcode"
)

var renderFlags struct {
	params string
	output string
	mode   string
}

var renderCmd = &cobra.Command{
	Use:   "render [file|-]",
	Short: "Render a BBCode document to HTML",
	Long: `Render a BBCode document to HTML.

The document is read from the given file, or from stdin when the argument is
"-" or missing. Template parameters for [var], [foreach] and [cond] come from
a YAML or JSON file.

Examples:
  # Render to stdout
  bbcode render post.bb

  # Render with parameters into a file
  bbcode render post.bb --params params.yaml --output post.html

  # Build html.Node trees and serialize them
  bbcode render post.bb --mode nodes`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderFlags.params, "params", "p", "", "YAML or JSON parameter file")
	renderCmd.Flags().StringVarP(&renderFlags.output, "output", "o", "", "output file (default stdout)")
	renderCmd.Flags().StringVar(&renderFlags.mode, "mode", bbcode.ModeHTML, "output mode: html, nodes")
}

func runRender(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) > 0 {
		path = args[0]
	}

	source, err := readSource(cmd, path)
	if err != nil {
		return err
	}

	params, err := loadParams(renderFlags.params)
	if err != nil {
		return err
	}

	engine := bbcode.New()
	out, err := renderDocument(engine, engine.Parse(source), params, renderFlags.mode)
	if err != nil {
		return err
	}

	if err := writeOutput(cmd, renderFlags.output, out); err != nil {
		return err
	}

	bbcode.WithFields(bbcode.Fields{
		"source": path,
		"bytes":  len(out),
		"mode":   renderFlags.mode,
	}).Debug("Rendered document")
	return nil
}
