package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-forge/internal/rendering"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a CV document to HTML or PDF",
	Long:  "Renders a CV JSON document with one of the preview templates. PDF output needs Chrome or Chromium on the host.",
	RunE:  runRender,
}

var (
	renderInput    string
	renderOutput   string
	renderTemplate string
	renderFormat   string
)

func init() {
	renderCmd.Flags().StringVarP(&renderInput, "in", "i", "", "Path to CV JSON file (required)")
	renderCmd.Flags().StringVarP(&renderOutput, "out", "o", "", "Path to output file (required)")
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", rendering.DefaultTemplate,
		"Template name ("+strings.Join(rendering.Names(), ", ")+")")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "html", "Output format: html or pdf")

	if err := renderCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	if err := renderCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	format := strings.ToLower(renderFormat)
	if format != "html" && format != "pdf" {
		return fmt.Errorf("unsupported format %q: use html or pdf", renderFormat)
	}

	renderer, err := rendering.Lookup(renderTemplate)
	if err != nil {
		return err
	}

	cv, err := readCV(renderInput)
	if err != nil {
		return err
	}

	var out []byte
	switch format {
	case "pdf":
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		out, err = rendering.NewPDFExporter(cfg.ChromePath, nil).Export(ctx, renderer, cv)
		if err != nil {
			return err
		}
	default:
		var buf bytes.Buffer
		if err := renderer.Render(&buf, cv); err != nil {
			return err
		}
		out = buf.Bytes()
	}

	if err := os.WriteFile(renderOutput, out, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Rendered %s (%s, %d bytes) to %s\n", renderer.Name(), format, len(out), renderOutput)
	return nil
}
