package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
	"golang.org/x/net/html"

	"github.com/SusanDoggie/go-bbcode/pkg/bbcode"
)

// readSource reads a document from path, or from stdin when path is "" or "-".
func readSource(cmd *cobra.Command, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", bbcode.NewDocumentError("read", "stdin", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", bbcode.NewDocumentError("read", path, err)
	}
	return string(data), nil
}

// loadParams returns empty params when no file is given.
func loadParams(path string) (bbcode.Params, error) {
	if path == "" {
		return bbcode.Params{}, nil
	}
	return bbcode.LoadParamsFile(path)
}

// writeOutput writes to stdout when path is "" or "-", otherwise replaces the
// file atomically so watchers never observe a half-written document.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return bbcode.NewDocumentError("write", path, err)
	}
	return nil
}

// renderDocument renders doc in the given mode. Node mode goes through
// html.Render, which serializes void elements and hard spaces differently
// from the string renderer.
func renderDocument(engine *bbcode.Engine, doc *bbcode.Document, params bbcode.Params, mode string) ([]byte, error) {
	switch mode {
	case bbcode.ModeHTML:
		return []byte(engine.Render(doc, params)), nil
	case bbcode.ModeNodes:
		var buf bytes.Buffer
		for _, n := range engine.RenderNodes(doc, params) {
			if err := html.Render(&buf, n); err != nil {
				return nil, fmt.Errorf("failed to serialize nodes: %w", err)
			}
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown render mode %q (want %s or %s)", mode, bbcode.ModeHTML, bbcode.ModeNodes)
	}
}
