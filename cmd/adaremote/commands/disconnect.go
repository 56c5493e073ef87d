package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// disconnectCmd forgets the stored current session. A live host or connect
// process ends its own session on interrupt.
func disconnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Forget the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ok, err := wire.Sessions.LoadCurrentSession()
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "No current session.")
				return nil
			}
			if err := wire.Sessions.ClearCurrentSession(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Disconnected from session %s.\n", cfg.SessionID.Code())
			return nil
		},
	}
}
