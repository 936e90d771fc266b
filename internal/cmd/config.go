package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/etravel/internal/config"
	"github.com/Iron-Ham/etravel/internal/tui/styles"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View etravel configuration",
	Long: `View etravel configuration.

Without arguments, displays the current configuration.
Use subcommands to create a config file or list themes.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/etravel/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

var configThemesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List the built-in TUI themes",
	RunE:  runConfigThemes,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configThemesCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "# Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "# Config file: (none - using defaults)\n")
	}

	settings := viper.AllSettings()
	delete(settings, "config")
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	_, err = out.Write(data)
	return err
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s", configFile)
	}

	// Create config directory
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Generate a commented config file
	configContent := `# etravel configuration

# Planning backend
api:
  # Base URL of the backend
  base_url: http://127.0.0.1:8000
  # Per-request timeout; plan generation can take a while
  timeout_seconds: 120

# Interface language used until one is chosen with 'etravel lang'
# Options: zh, en
locale:
  default: zh

# Persistent client state (session token, email, language)
storage:
  # Empty means ~/.config/etravel/state
  dir: ""

# Debug logging
logging:
  enabled: true
  # Options: debug, info, warn, error
  level: info
  # Empty means ~/.config/etravel/logs
  dir: ""

# Plan export
export:
  # Empty means the system temp directory
  dir: ""
  # Ask the browser to print HTML exports on load
  auto_print: true

# Search history cache (1-10)
history:
  limit: 10

# Local stub backend started by 'etravel devserver'
devserver:
  addr: 127.0.0.1:8000
  cors_origins:
    - http://localhost:3000
    - http://127.0.0.1:3000

# Terminal UI
tui:
  # Options: default, nord, dracula, solarized-light
  theme: default
`

	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", configFile)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configFile := config.ConfigFile()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", configFile)
	}

	// Also show config search paths
	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	fmt.Fprintf(out, "  2. $HOME/.config/etravel/config.yaml\n")
	fmt.Fprintf(out, "  3. ./config.yaml (current directory)\n")
	fmt.Fprintln(out, "\nEnvironment variables: ETRAVEL_* (e.g., ETRAVEL_API_BASE_URL)")

	return nil
}

func runConfigThemes(cmd *cobra.Command, args []string) error {
	active := viper.GetString("tui.theme")
	for _, name := range styles.BuiltinThemes() {
		marker := " "
		if strings.EqualFold(name, active) {
			marker = "*"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, name)
	}
	return nil
}
