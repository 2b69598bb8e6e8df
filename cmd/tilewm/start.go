package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tilewm/tilewm/internal/config"
	"github.com/tilewm/tilewm/internal/geometry"
	"github.com/tilewm/tilewm/internal/ipc"
	"github.com/tilewm/tilewm/internal/platform"
	"github.com/tilewm/tilewm/internal/platform/fake"
	"github.com/tilewm/tilewm/internal/wm"
)

func newStartCmd() *cobra.Command {
	var width, height int
	var verbose bool

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the reducer and IPC server in the foreground",
		Long: `start runs the WM reducer loop and its IPC server until interrupted.

The raw OS-window/display adapters (enumeration, hooks, COM/X11/AppKit
init) are outside this core's scope; start drives the reducer against a
single synthetic monitor sized by --width/--height, exercising the full
command/event/platform-sync/IPC pipeline without a live window session.
A real build wires a platform.NativeWindow/NativeMonitor adapter in place
of internal/platform/fake and feeds its hooks into the returned *wm.WM's
Handle* methods.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
			return runStart(width, height)
		},
	}

	cmd.Flags().IntVar(&width, "width", 1920, "synthetic monitor width in px")
	cmd.Flags().IntVar(&height, "height", 1080, "synthetic monitor height in px")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

func resolvePaths() (cfgPath, sockPath string, err error) {
	cfgPath = configPath
	if cfgPath == "" {
		if cfgPath, err = config.ResolveConfigPath(); err != nil {
			return "", "", fmt.Errorf("resolve config path: %w", err)
		}
	}
	sockPath = socketPath
	if sockPath == "" {
		if sockPath, err = config.ResolveSocketPath(); err != nil {
			return "", "", fmt.Errorf("resolve socket path: %w", err)
		}
	}
	return cfgPath, sockPath, nil
}

func runStart(width, height int) error {
	cfgPath, sockPath, err := resolvePaths()
	if err != nil {
		return err
	}

	cfg, err := config.LoadOrCreate(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if result := config.Validate(cfg); result.HasErrors() {
		return fmt.Errorf("invalid config: %v", result.Errors)
	}

	monitors := []platform.NativeMonitor{
		fake.NewMonitor("monitor-1", "display-1", geometry.Rect{Width: float64(width), Height: float64(height)}, 1.0, true),
	}
	tree, err := wm.BuildTree(cfg, monitors)
	if err != nil {
		return fmt.Errorf("build container tree: %w", err)
	}

	reducer, err := wm.New(tree, cfg, cfgPath, wm.Options{
		Cursor:  &fake.Cursor{},
		Process: &fake.ProcessRunner{},
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("construct reducer: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(sockPath), 0o750); err != nil {
		return fmt.Errorf("create socket directory: %w", err)
	}
	server := ipc.New(reducer, sockPath)
	if err := server.Start(); err != nil {
		return fmt.Errorf("start ipc server: %w", err)
	}
	defer server.Stop()

	stopWatch, err := watchConfig(cfgPath, reducer)
	if err != nil {
		log.Warn("config file watch disabled", "err", err)
	} else {
		defer stopWatch()
	}

	log.Info("tilewm started", "config", cfgPath, "socket", sockPath)

	go reducer.Run()
	defer reducer.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")
	return nil
}

// watchConfig feeds filesystem changes to cfgPath into wm-reload-config
// (spec.md §6.1's hot-reload requirement) via config.Watcher.
func watchConfig(cfgPath string, reducer *wm.WM) (stop func(), err error) {
	watcher, err := config.NewWatcher(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("create config watcher: %w", err)
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case _, ok := <-watcher.Events():
				if !ok {
					return
				}
				if _, err := reducer.RunCommand("", "wm-reload-config"); err != nil {
					log.Warn("config reload failed", "err", err)
				}
			case werr, ok := <-watcher.Errors():
				if !ok {
					return
				}
				log.Warn("config watcher error", "err", werr)
			}
		}
	}()

	return func() {
		close(done)
		_ = watcher.Close()
	}, nil
}
