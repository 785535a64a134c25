package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/todos/internal/tui"
)

func newUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive terminal view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer func() {
				if cerr := s.Close(); err == nil {
					err = cerr
				}
			}()
			return tui.Run(cmd.Context(), s.endpoints)
		},
	}
}
