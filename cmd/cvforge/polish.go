package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/cv-forge/internal/observability"
	"github.com/jonathan/cv-forge/internal/polish"
)

var polishCmd = &cobra.Command{
	Use:   "polish",
	Short: "Polish a CV document with the configured model",
	Long:  "Rewrites the narrative fields of a CV JSON document for its target company and role. The photo, theme color and target job fields are kept as they are.",
	RunE:  runPolish,
}

var (
	polishInput   string
	polishOutput  string
	polishVerbose bool
)

func init() {
	polishCmd.Flags().StringVarP(&polishInput, "in", "i", "", "Path to CV JSON file (required)")
	polishCmd.Flags().StringVarP(&polishOutput, "out", "o", "", "Path to write the polished CV (default stdout)")
	polishCmd.Flags().BoolVarP(&polishVerbose, "verbose", "v", false, "Print the CV before and after polishing")

	if err := polishCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(polishCmd)
}

func runPolish(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cv, err := readCV(polishInput)
	if err != nil {
		return err
	}
	if err := polish.Preflight(cv); err != nil {
		return errors.New(polish.UserMessage(err))
	}

	logger := zap.NewNop()
	if polishVerbose {
		logger = observability.NewLogger("cvforge", "development", "debug")
	}

	var printer *observability.Printer
	if polishVerbose {
		printer = observability.NewPrinter(cmd.ErrOrStderr())
		printer.PrintCV("Input CV", &cv)
	}

	ctx := cmd.Context()

	client, err := newLLMClient(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	polished, err := polish.New(client,
		polish.WithLogger(logger),
		polish.WithTimeout(cfg.PolishTimeout.Duration),
	).Polish(ctx, cv)
	if err != nil {
		if polishVerbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
		}
		return errors.New(polish.UserMessage(err))
	}

	if polishVerbose {
		printer.PrintCV("Polished CV", &polished)
		printer.PrintPolishDiff(&cv, &polished)
	}

	return writeJSON(polishOutput, polished)
}
