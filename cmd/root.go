package cmd

import (
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "internscope"
)

type Config struct {
	Interval       time.Duration `mapstructure:"interval"`
	CycleDeadline  time.Duration `mapstructure:"cycle-deadline"`
	MatchThreshold float64       `mapstructure:"match-threshold"`
	ProfileFile    string        `mapstructure:"profile-file"`
	Sources        *SourcesConfig
	Seen           *SeenConfig
	Similarity     *SimilarityConfig
	Discord        *DiscordConfig
	SeniorMarkers  []string `mapstructure:"senior-markers"`
}

type SourcesConfig struct {
	Lever          []string      `mapstructure:"lever"`
	Greenhouse     []string      `mapstructure:"greenhouse"`
	RSSQueries     []string      `mapstructure:"rss-queries"`
	WeWorkRemotely bool          `mapstructure:"weworkremotely"`
	Keywords       []string      `mapstructure:"keywords"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type SeenConfig struct {
	Backend  string `mapstructure:"backend"`
	File     string `mapstructure:"file"`
	RedisURL string `mapstructure:"redis-url"`
	RedisKey string `mapstructure:"redis-key"`
}

type SimilarityConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

type DiscordConfig struct {
	WebhookURL     string `mapstructure:"webhook-url"`
	WebhookURLFile string `mapstructure:"webhook-url-file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "internscope is a job monitor that scores postings against your profile and alerts on matches",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("discord.webhook-url-file", "DISCORD_WEBHOOK_URL_FILE"); err != nil {
		log.Fatalf("binding DISCORD_WEBHOOK_URL_FILE environment variable: %v", err)
	}

	if err := viper.BindEnv("similarity.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is internscope.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for commands that touch the pipeline or its state.
	if runCmd.CalledAs() == "" && resetCmd.CalledAs() == "" && analyzeCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
