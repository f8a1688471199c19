package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	applogger "github.com/theworldofraheem/InternScope/internal/logger"
	"github.com/theworldofraheem/InternScope/internal/profile"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Report which skills from the vocabulary the profile covers",
	Run: func(_ *cobra.Command, _ []string) {
		analyze()
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func analyze() {
	ctx := context.Background()

	logger, err := applogger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	profileFile := defaultProfileFile
	if config != nil && config.ProfileFile != "" {
		profileFile = config.ProfileFile
	}

	text, err := profile.NewFileProvider(profileFile, logger).ProfileText(ctx)
	if err != nil {
		logger.Fatal("reading the profile", zap.Error(err))
	}

	if strings.TrimSpace(text) == "" {
		logger.Fatal("profile is empty",
			zap.String("file", profileFile),
			zap.String("hint", "put your resume text into the profile file"),
		)
	}

	report := profile.Analyze(text, nil)

	fmt.Printf("Skills found (%d): %s\n", len(report.Found), strings.Join(report.Found, ", "))
	fmt.Printf("Skills missing (%d): %s\n", len(report.Missing), strings.Join(report.Missing, ", "))
}
