/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/socraticchat/socratic/internal/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config [field]",
	Short: "Display current configuration",
	Long: `Display the current configuration values.
This command shows all configuration values loaded from the config file and environment variables.

If a field name is specified, only that field's value is displayed.
Available fields: configfile, listen_addr, model, base_url, token, persona_file, normalizer, normalizer_url

Examples:
  socratic config              # Show all configuration
  socratic config model        # Show only the model
  socratic config token        # Show the (masked) provider token`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		if len(args) > 0 {
			field := strings.ToLower(args[0])
			switch field {
			case "configfile":
				fmt.Println(viper.ConfigFileUsed())
			case "listen_addr", "listenaddr":
				fmt.Println(cfg.ListenAddr)
			case "model":
				fmt.Println(cfg.Model)
			case "base_url", "baseurl":
				fmt.Println(cfg.BaseURL)
			case "token":
				fmt.Println(maskToken(cfg.Token))
			case "persona_file", "personafile":
				fmt.Println(cfg.PersonaFile)
			case "normalizer":
				fmt.Println(cfg.Normalizer)
			case "normalizer_url", "normalizerurl":
				fmt.Println(cfg.NormalizerURL)
			default:
				fmt.Fprintf(os.Stderr, "Unknown field: %s\n", args[0])
				fmt.Fprintf(os.Stderr, "Available fields: configfile, listen_addr, model, base_url, token, persona_file, normalizer, normalizer_url\n")
				os.Exit(1)
			}
			return
		}

		fmt.Printf("ConfigFile: %s\n", viper.ConfigFileUsed())
		fmt.Printf("ListenAddr: %s\n", cfg.ListenAddr)
		fmt.Printf("Model: %s\n", cfg.Model)
		fmt.Printf("BaseURL: %s\n", cfg.BaseURL)
		fmt.Printf("Token: %s\n", maskToken(cfg.Token))
		fmt.Printf("PersonaFile: %s\n", cfg.PersonaFile)
		fmt.Printf("Normalizer: %s\n", cfg.Normalizer)
		fmt.Printf("NormalizerURL: %s\n", cfg.NormalizerURL)
		fmt.Printf("RequestTimeoutSeconds: %d\n", cfg.RequestTimeoutSeconds)
		fmt.Printf("SessionRetentionMinutes: %d\n", cfg.SessionRetentionMinutes)
	},
}

// maskToken returns a masked version of the token for security
func maskToken(token string) string {
	if len(token) <= 8 {
		return "********"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func init() {
	rootCmd.AddCommand(configCmd)
}
