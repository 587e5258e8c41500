package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "menuflow",
	Short: "Menuflow is a template-driven conversational state machine",
	Long: `Menuflow drives menu-style conversations over chat messaging channels.
Templates are per-language YAML graphs; the engine validates replies,
routes between templates, and dispatches side-effecting actions.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Optional .env for local development; real deployments set env directly.
		_ = godotenv.Load()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("templates", "templates", "Directory containing per-language template YAML files")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
}
