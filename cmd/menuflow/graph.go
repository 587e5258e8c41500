package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fynbosch/menuflow/internal/presentation/graph"
	"github.com/fynbosch/menuflow/pkg/adapters/file"
	"github.com/fynbosch/menuflow/pkg/domain"
	"github.com/fynbosch/menuflow/pkg/registry"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Render a language graph as Mermaid",
	Long:  `Prints the template graph for one language in Mermaid flowchart syntax.`,
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("templates")
		langFlag, _ := cmd.Flags().GetString("lang")

		lang, err := domain.ParseLanguage(langFlag)
		if err != nil {
			fmt.Printf("Unknown language %q (expected one of: %v)\n", langFlag, domain.LanguageNames())
			os.Exit(1)
		}

		reg := registry.New(file.NewSource(dir))
		g, err := reg.Load(lang)
		if err != nil {
			fmt.Printf("Failed to load graph: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(graph.GenerateMermaid(g))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("lang", string(domain.DefaultLanguage), "Language code to render")
}
