package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/etravel/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "etravel",
	Short: "AI trip planner for the terminal",
	Long: `etravel plans trips with an AI planning backend.

Describe where you start, where you want to go and how you like to travel,
and etravel returns the top destinations with a day-by-day itinerary and a
budget breakdown. Plans can be exported as text, HTML or Markdown.

Run 'etravel login' once, then 'etravel start' for the interactive planner.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx available to every command.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/etravel/config.yaml)")
	rootCmd.PersistentFlags().String("api", "", "planning backend base URL (overrides api.base_url)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("api.base_url", rootCmd.PersistentFlags().Lookup("api"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/etravel")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("ETRAVEL")
	// Replace dots with underscores for nested keys in env vars
	// e.g., ETRAVEL_API_BASE_URL for api.base_url
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
