package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tilewm/tilewm/internal/ipc"
)

func newSubCmd() *cobra.Command {
	var eventNames []string

	cmd := &cobra.Command{
		Use:   "sub",
		Short: "Subscribe to WM events and print them as they arrive",
		Long: `sub connects to a running tilewm instance, subscribes to the
named events (spec.md §6.2's fifteen WM events), and prints each event
envelope as it is pushed until interrupted.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if len(eventNames) == 0 {
				return fmt.Errorf("--events requires at least one event name")
			}
			events := make([]ipc.EventName, len(eventNames))
			for i, n := range eventNames {
				events[i] = ipc.EventName(n)
			}
			return runSub(events)
		},
	}
	cmd.Flags().StringSliceVar(&eventNames, "events", nil, "event names to subscribe to (comma-separated or repeated)")
	return cmd
}

func runSub(events []ipc.EventName) error {
	sockPath, err := resolveSocketPathFlag()
	if err != nil {
		return err
	}
	client, err := ipc.Dial(sockPath)
	if err != nil {
		return err
	}
	defer client.Close()

	id, err := client.Subscribe(events)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	fmt.Fprintf(os.Stderr, "subscribed: %s\n", id)

	done := make(chan struct{})
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		close(done)
	}()

	for {
		select {
		case <-done:
			return nil
		default:
		}
		ev, err := client.ReadEvent()
		if err != nil {
			return fmt.Errorf("read event: %w", err)
		}
		fmt.Println(formatEvent(ev))
	}
}

func formatEvent(ev ipc.Event) string {
	if !ev.Success {
		return fmt.Sprintf(`{"subscription_id":%q,"success":false,"error":%q}`, ev.SubscriptionID, ev.Error)
	}
	return fmt.Sprintf(`{"subscription_id":%q,"success":true,"data":%s}`, ev.SubscriptionID, string(ev.Data))
}
