package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/diffdochq/diffdoc"
	appservice "github.com/diffdochq/diffdoc/application/service"
	"github.com/diffdochq/diffdoc/domain/source"
	"github.com/diffdochq/diffdoc/domain/story"
	"github.com/diffdochq/diffdoc/infrastructure/detect"
	"github.com/diffdochq/diffdoc/internal/log"
)

func explainCmd() *cobra.Command {
	var (
		envFile          string
		settingsFile     string
		storyName        string
		storyDescription string
		instructions     string
		originalPath     string
		modifiedPath     string
	)

	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Analyze a code change and print the document",
		Long: `Analyze a code change against a user story and print the resulting
markdown document to stdout.

The modified file is required. When an original file is given, its most
relevant sections are extracted and included as context for the analysis.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(envFile, settingsFile, storyName, storyDescription, instructions, originalPath, modifiedPath)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file")
	cmd.Flags().StringVar(&settingsFile, "settings", "", "Path to YAML settings file")
	cmd.Flags().StringVar(&storyName, "story", "", "User story name (required)")
	cmd.Flags().StringVar(&storyDescription, "description", "", "User story description")
	cmd.Flags().StringVar(&instructions, "instructions", "", "Additional instructions for the analysis")
	cmd.Flags().StringVar(&originalPath, "original", "", "Path to the original file")
	cmd.Flags().StringVar(&modifiedPath, "modified", "", "Path to the modified file (required)")
	_ = cmd.MarkFlagRequired("story")
	_ = cmd.MarkFlagRequired("modified")

	return cmd
}

func runExplain(envFile, settingsFile, storyName, storyDescription, instructions, originalPath, modifiedPath string) error {
	cfg, err := loadConfig(envFile, settingsFile)
	if err != nil {
		return err
	}

	// Log to stderr so stdout carries only the document.
	logger := log.NewLoggerWithWriter(os.Stderr, cfg.LogFormat(), cfg.LogLevel())

	client, err := diffdoc.New(
		diffdoc.WithConfig(cfg),
		diffdoc.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("create diffdoc client: %w", err)
	}

	modified, err := readSource(modifiedPath)
	if err != nil {
		return err
	}

	var original source.Document
	if originalPath != "" {
		original, err = readSource(originalPath)
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	doc, err := client.Explain(ctx, appservice.Request{
		Original:     original,
		Modified:     detect.Label(modified),
		Story:        story.New(storyName, storyDescription),
		Instructions: instructions,
	})
	if err != nil {
		return fmt.Errorf("explain: %w", err)
	}

	fmt.Println(doc.Markdown())
	return nil
}

func readSource(path string) (source.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return source.Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	return source.NewDocument(filepath.Base(path), string(raw)), nil
}
