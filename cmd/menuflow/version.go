package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fynbosch/menuflow"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of menuflow",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("menuflow version %s\n", menuflow.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
