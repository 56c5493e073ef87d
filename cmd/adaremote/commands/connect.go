package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"adaremote/internal/domain"
)

// connectCmd joins a hosted session and runs the client side of the
// handshake.
func connectCmd() *cobra.Command {
	var (
		password string
		mode     string
	)
	cmd := &cobra.Command{
		Use:   "connect <session-id-or-code>",
		Short: "Connect to a hosted session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := wire.Config.Client.Mode
			if mode != "" {
				m = domain.ConnectionMode(mode)
			}
			if !m.Valid() {
				return fmt.Errorf("%w: unknown connection mode %q", domain.ErrParse, m)
			}

			backends, err := selectBackends()
			if err != nil {
				return err
			}
			defer func() { _ = backends.Cleanup() }()

			ctx, stop := interruptible(cmd.Context())
			defer stop()
			conn, err := wire.Dial(ctx)
			if err != nil {
				return err
			}
			defer conn.Close()

			est, err := conn.Sessions.Connect(ctx, args[0], password, m)
			if err != nil {
				return err
			}
			printEstablished(est)
			return hold(ctx, conn, est)
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "session password given by the host")
	cmd.Flags().StringVar(&mode, "mode", "", "requested connection mode (default from config)")
	return cmd
}
