package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tilewm/tilewm/internal/ipc"
)

func newUnsubCmd() *cobra.Command {
	var subscriptionID string

	cmd := &cobra.Command{
		Use:   "unsub",
		Short: "Cancel a subscription by id",
		Long: `unsub sends an Unsubscribe request for --id. Subscriptions are
scoped to the running instance, not to any one connection, so unsub works
from a fresh connection independent of the one that created the
subscription.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if subscriptionID == "" {
				return fmt.Errorf("--id is required")
			}
			return runUnsub(subscriptionID)
		},
	}
	cmd.Flags().StringVar(&subscriptionID, "id", "", "subscription id to cancel")
	return cmd
}

func runUnsub(id string) error {
	sockPath, err := resolveSocketPathFlag()
	if err != nil {
		return err
	}
	client, err := ipc.Dial(sockPath)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Unsubscribe(id); err != nil {
		return fmt.Errorf("unsubscribe %s: %w", id, err)
	}
	fmt.Printf("unsubscribed: %s\n", id)
	return nil
}
