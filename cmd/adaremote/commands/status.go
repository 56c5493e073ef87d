package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// statusCmd prints the stored current session and asks the relay for its
// counters.
func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session and relay status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, ok, err := wire.Sessions.LoadCurrentSession()
			if err != nil {
				return err
			}
			if ok {
				fmt.Fprintf(out, "Session ID:   %s\n", cfg.SessionID)
				fmt.Fprintf(out, "Session code: %s\n", cfg.SessionID.Code())
				fmt.Fprintf(out, "Mode:         %s\n", cfg.Mode)
				fmt.Fprintf(out, "Quality:      %s\n", cfg.Quality)
				fmt.Fprintf(out, "Clipboard:    %t\n", cfg.ClipboardSync)
				fmt.Fprintf(out, "Password:     %t\n", cfg.HasPassword())
			} else {
				fmt.Fprintln(out, "No current session.")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			st, err := wire.Status.Status(ctx)
			if err != nil {
				fmt.Fprintf(out, "Relay %s: unreachable (%v)\n", wire.Status.Base, err)
				return nil
			}
			fmt.Fprintf(out, "Relay %s: %d sessions, %d connections\n", wire.Status.Base, st.Sessions, st.Connections)
			return nil
		},
	}
}
