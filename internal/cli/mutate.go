package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/todos/internal/endpoint"
)

// listFlag registers --list on a mutation command.
func listFlag(cmd *cobra.Command, target *bool) {
	cmd.Flags().BoolVar(target, "list", false, "print the refreshed list after the change")
}

// mutate dispatches payload to the op endpoint and reports the result. With
// showList the list is re-read after the mutation succeeded and printed
// instead.
func (a *app) mutate(ctx context.Context, op endpoint.Op, payload any, showList bool, report func(endpoint.Result) error) (err error) {
	s, err := a.open()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); err == nil {
			err = cerr
		}
	}()

	raw := endpoint.MustPayload(payload)
	if !showList {
		res, err := s.endpoints.Dispatch(ctx, op, raw)
		if err != nil {
			return err
		}
		return report(res)
	}

	_, view, err := s.endpoints.MutateAndReload(ctx, func(ctx context.Context) (endpoint.Result, error) {
		return s.endpoints.Dispatch(ctx, op, raw)
	})
	if err != nil {
		return err
	}
	return a.printList(view)
}
