/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/socraticchat/socratic/internal/config"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "socratic",
	Short: "A Socratic dialogue chat service",
	Long: `socratic is an HTTP service that relays conversations to an LLM
completion API with a fixed Socratic tutor persona, keeping per-session
conversation history in memory.

You can configure the service using a TOML configuration file or
SOCRATIC_* environment variables.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/socratic/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("SOCRATIC")
	viper.AutomaticEnv()

	// Set default values
	defaultConfig := config.NewDefaultConfig()
	viper.SetDefault("listen_addr", defaultConfig.ListenAddr)
	viper.SetDefault("model", defaultConfig.Model)
	viper.SetDefault("base_url", defaultConfig.BaseURL)
	viper.SetDefault("token", defaultConfig.Token)
	viper.SetDefault("persona_file", defaultConfig.PersonaFile)
	viper.SetDefault("normalizer", defaultConfig.Normalizer)
	viper.SetDefault("normalizer_url", defaultConfig.NormalizerURL)
	viper.SetDefault("request_timeout_seconds", defaultConfig.RequestTimeoutSeconds)
	viper.SetDefault("session_retention_minutes", defaultConfig.SessionRetentionMinutes)

	// Bind environment variables
	viper.BindEnv("listen_addr", "SOCRATIC_LISTEN_ADDR")
	viper.BindEnv("model", "SOCRATIC_MODEL")
	viper.BindEnv("base_url", "SOCRATIC_BASE_URL")
	viper.BindEnv("token", "SOCRATIC_TOKEN")
	viper.BindEnv("normalizer_url", "SOCRATIC_NORMALIZER_URL")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(filepath.Join(home, ".config", "socratic"))
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
	} else if verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
