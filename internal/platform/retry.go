package platform

import "fmt"

// RetryOnFailure generalizes the COM-interface refresh-and-retry pattern
// from wm-platform's com.rs: run fn once; on failure, call refresh and try
// fn exactly one more time. Further failure surfaces as an error for the
// caller to log and continue past (spec.md §7, OSCallFailed (transient)).
func RetryOnFailure(fn func() error, refresh func()) error {
	if err := fn(); err == nil {
		return nil
	} else if refresh == nil {
		return err
	}

	refresh()
	if err := fn(); err != nil {
		return fmt.Errorf("OS call failed after refresh-and-retry: %w", err)
	}
	return nil
}
