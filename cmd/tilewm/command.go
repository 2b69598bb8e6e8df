package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tilewm/tilewm/internal/ipc"
)

func newCommandCmd() *cobra.Command {
	var subjectID string

	cmd := &cobra.Command{
		Use:   "command <invoke...>",
		Short: "Run an app-command against a subject container",
		Long: `command sends an app-command invocation string (spec.md §4.7's
grammar, e.g. "focus --direction left") to a running tilewm instance. The
subject defaults to the currently focused container; use --id to target a
specific container by id.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runCommand(subjectID, strings.Join(args, " "))
		},
	}
	cmd.Flags().StringVar(&subjectID, "id", "", "subject container id (default: focused container)")
	return cmd
}

func runCommand(subjectID, invoke string) error {
	sockPath, err := resolveSocketPathFlag()
	if err != nil {
		return err
	}
	client, err := ipc.Dial(sockPath)
	if err != nil {
		return err
	}
	defer client.Close()

	data, err := client.RunCommand(subjectID, invoke)
	if err != nil {
		return fmt.Errorf("command %q: %w", invoke, err)
	}
	fmt.Println(string(data))
	return nil
}
