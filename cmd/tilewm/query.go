package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tilewm/tilewm/internal/config"
	"github.com/tilewm/tilewm/internal/ipc"
)

var queryKinds = map[string]ipc.QueryKind{
	"app-metadata":     ipc.QueryAppMetadata,
	"binding-modes":    ipc.QueryBindingModes,
	"focused":          ipc.QueryFocused,
	"tiling-direction": ipc.QueryTilingDirection,
	"monitors":         ipc.QueryMonitors,
	"windows":          ipc.QueryWindows,
	"workspaces":       ipc.QueryWorkspaces,
	"paused":           ipc.QueryPaused,
}

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <subject>",
		Short: "Query live WM state over the IPC socket",
		Long: `query connects to a running tilewm instance and prints one of
spec.md §6.2's eight query subjects as JSON: app-metadata, binding-modes,
focused, tiling-direction, monitors, windows, workspaces, paused.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			kind, ok := queryKinds[args[0]]
			if !ok {
				return fmt.Errorf("unknown query subject %q", args[0])
			}
			return runQuery(kind)
		},
	}
	return cmd
}

func runQuery(kind ipc.QueryKind) error {
	sockPath, err := resolveSocketPathFlag()
	if err != nil {
		return err
	}
	client, err := ipc.Dial(sockPath)
	if err != nil {
		return err
	}
	defer client.Close()

	data, err := client.Query(kind)
	if err != nil {
		return fmt.Errorf("query %s: %w", kind, err)
	}
	fmt.Fprintln(os.Stdout, string(data))
	return nil
}

// resolveSocketPathFlag honours the --socket persistent flag, else falls
// back to config.ResolveSocketPath's TILEWM_SOCKET_PATH/xdg default —
// shared by every client subcommand (query/command/sub/unsub).
func resolveSocketPathFlag() (string, error) {
	if socketPath != "" {
		return socketPath, nil
	}
	return config.ResolveSocketPath()
}
