package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fynbosch/menuflow"
	"github.com/fynbosch/menuflow/internal/logging"
	"github.com/fynbosch/menuflow/internal/presentation/tui"
	"github.com/fynbosch/menuflow/pkg/actions"
	"github.com/fynbosch/menuflow/pkg/adapters/file"
	"github.com/fynbosch/menuflow/pkg/domain"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Simulate a conversation in the terminal",
	Long: `Runs the full turn loop locally against an in-memory position, so
template graphs can be exercised without a messaging channel. Type
replies as the user would; Ctrl+D or /quit exits.`,
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("templates")
		level, _ := cmd.Flags().GetString("log-level")

		if err := runChat(dir, level); err != nil {
			fmt.Printf("Chat failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(dir, level string) error {
	logger := logging.New(logging.ParseLevel(level))

	engine := menuflow.New(file.NewSource(dir), menuflow.WithLogger(logger))
	engine.RegisterAction("static_reply", actions.StaticReply())

	if err := engine.Preload(); err != nil {
		return err
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		tui.PrintBanner()
	}

	render := tui.NewRenderer()
	profile := termenv.ColorProfile()
	ctx := context.Background()

	pos := *domain.NewPosition(engine.DefaultLanguage())
	const userID = "simulator"

	// First contact: empty input triggers the entry prompt.
	input := ""
	scanner := bufio.NewScanner(os.Stdin)

	for {
		turn, err := engine.Turn(ctx, userID, pos, input)
		if err != nil {
			return err
		}
		pos = turn.Position

		for _, msg := range turn.Messages {
			switch msg.Kind {
			case domain.PartBody:
				out, rerr := render(msg.Text)
				if rerr != nil {
					out = msg.Text + "\n"
				}
				fmt.Print(out)
			case domain.PartMedia:
				fmt.Println(termenv.String("  [media] " + msg.URL).Foreground(profile.Color("#38bdf8")))
			case domain.PartRedirect:
				fmt.Println(termenv.String("  [redirect] " + msg.Target).Foreground(profile.Color("#a78bfa")))
			}
		}

		if interactive {
			fmt.Print(termenv.String("you> ").Bold())
		}
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		input = strings.TrimSpace(scanner.Text())
		if input == "/quit" {
			return nil
		}
	}
}
