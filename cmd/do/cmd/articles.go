package cmd

import (
	"fmt"
	"os"

	"github.com/fitbloom/fitbloom/internal/app"
	"github.com/fitbloom/fitbloom/internal/config"
	"github.com/fitbloom/fitbloom/internal/logger"
	"github.com/spf13/cobra"
)

func ArticlesCmd() *cobra.Command {
	articlesCmd := &cobra.Command{
		Use:   "articles",
		Short: "Manage practice articles",
	}

	var doctorEmail string

	importCmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import markdown articles with YAML frontmatter for a doctor",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return importArticles(cmd, doctorEmail, args)
		},
	}
	importCmd.Flags().StringVar(&doctorEmail, "doctor", "", "email of the doctor who authors the articles")
	_ = importCmd.MarkFlagRequired("doctor")

	articlesCmd.AddCommand(importCmd)
	return articlesCmd
}

func importArticles(cmd *cobra.Command, doctorEmail string, files []string) error {
	cfg := config.Load()
	logger.Init(logger.Options{Development: true})

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	doctor, err := a.DoctorService.ByEmail(doctorEmail)
	if err != nil {
		return fmt.Errorf("failed to find doctor %s: %w", doctorEmail, err)
	}

	var failed int
	for _, path := range files {
		source, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s: %v\n", path, err)
			failed++
			continue
		}

		article, err := a.ArticleService.Import(doctor.ID, source)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s: %v\n", path, err)
			failed++
			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s → %s (%s)\n", path, article.Title, article.ID)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d articles failed to import", failed, len(files))
	}
	return nil
}
