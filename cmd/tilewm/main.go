// Package main implements tilewm's command-line entrypoint: a `start`
// subcommand that runs the reducer and IPC server, and `query`/`command`/
// `sub`/`unsub` client subcommands that talk to a running instance over
// its Unix socket (spec.md §6.3).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// Version information (set by goreleaser).
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

var (
	configPath string
	socketPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "tilewm",
		Short:   "A tiling window manager core",
		Version: version,
		Example: `  # Start the reducer and IPC server
  tilewm start

  # Query the focused container from another terminal
  tilewm query focused

  # Run an app-command against the focused container
  tilewm command "focus --direction left"

  # Subscribe to focus-change events
  tilewm sub --events focus_changed`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the YAML config file (default: xdg config dir)")
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", "", "path to the IPC Unix socket (default: xdg runtime dir)")

	rootCmd.AddCommand(newStartCmd())
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newCommandCmd())
	rootCmd.AddCommand(newSubCmd())
	rootCmd.AddCommand(newUnsubCmd())

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}
