package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the voicecal application
var rootCmd = &cobra.Command{
	Use:   "voicecal",
	Short: "Voice-driven personal calendar assistant",
	Long: `voicecal is a voice-driven assistant for your Google Calendar. Speak or
type a request and a language model schedules, lists, updates and deletes
events on your primary calendar.

It can run as:
  - An interactive assistant shell (default)
  - An MCP (Model Context Protocol) server exposing the calendar tools`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "voicecal version %s\n" .Version}}`)

	// If no subcommand is provided, run the chat command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "chat")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
}
