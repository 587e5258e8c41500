package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fynbosch/menuflow/pkg/adapters/file"
	"github.com/fynbosch/menuflow/pkg/registry"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every language graph for consistency",
	Long: `Loads every per-language template document and reports broken routing
targets, dangling next/previous pointers, missing entry templates, token
overlaps between actions and routing, and unknown validator kinds.`,
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("templates")
		if err := runValidate(dir); err != nil {
			fmt.Printf("Validation failed:\n%v\n", err)
			os.Exit(1)
		}
		fmt.Println("All language graphs are valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(dir string) error {
	source := file.NewSource(dir)

	langs, err := source.Languages()
	if err != nil {
		return err
	}
	if len(langs) == 0 {
		return fmt.Errorf("no template documents found in %s", dir)
	}

	reg := registry.New(source)
	for _, lang := range langs {
		if _, err := reg.Load(lang); err != nil {
			return err
		}
		fmt.Printf("  %s: ok\n", lang)
	}
	return nil
}
