package cli

import (
	"context"
	"fmt"
)

// Stats prints the HTTP requests made since start, per method and status.
func (a *App) Stats(ctx context.Context) error {
	if a.metrics == nil {
		fmt.Fprintln(a.out, "No requests yet")
		return nil
	}
	counts, err := a.metrics.Summary()
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		fmt.Fprintln(a.out, "No requests yet")
		return nil
	}
	for _, c := range counts {
		fmt.Fprintln(a.out, c.String())
	}
	return nil
}
