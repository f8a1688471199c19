package cmd

import (
	"context"
	"log"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	applogger "github.com/theworldofraheem/InternScope/internal/logger"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the persisted seen set so every posting is evaluated again",
	Run: func(cmd *cobra.Command, _ []string) {
		reset(cmd)
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}

func reset(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := applogger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		config = &Config{}
	}

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		prompt := promptui.Select{
			Label: "Clear the seen set? Every known posting becomes eligible for alerts again",
			Items: []string{PromptYes, PromptNo},
		}

		_, answer, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		if answer != PromptYes {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	store, err := buildSeenStore(ctx, config.Seen, logger)
	if err != nil {
		logger.Fatal("building the seen store", zap.Error(err))
	}

	if err := store.Reset(ctx); err != nil {
		logger.Fatal("resetting the seen set", zap.Error(err))
	}

	logger.Info("seen set cleared")
}
