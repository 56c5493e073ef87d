package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"adaremote/internal/crypto"
	"adaremote/internal/domain"
	sessionsvc "adaremote/internal/services/session"
)

// hostCmd registers a new session with the relay and waits for one client to
// complete the handshake.
func hostCmd() *cobra.Command {
	var (
		password    string
		randomPass  bool
		mode        string
		quality     string
		noClipboard bool
	)
	cmd := &cobra.Command{
		Use:   "host",
		Short: "Share this machine and wait for a client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := wire.Config.Client
			m := client.Mode
			if mode != "" {
				m = domain.ConnectionMode(mode)
			}
			q := client.Quality
			if quality != "" {
				q = domain.VideoQuality(quality)
			}
			if randomPass {
				if password != "" {
					return fmt.Errorf("--password and --random-password are mutually exclusive")
				}
				password = crypto.GenerateSessionPassword()
			}

			cfg, err := sessionsvc.NewConfig(m, password, q, client.ClipboardSync && !noClipboard)
			if err != nil {
				return err
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

			if err := conn.Sessions.Register(ctx, cfg); err != nil {
				return err
			}
			fmt.Printf("Session ID:   %s\n", cfg.SessionID)
			fmt.Printf("Session code: %s\n", cfg.SessionID.Code())
			if randomPass {
				fmt.Printf("Password:     %s\n", password)
			}
			fmt.Println("Waiting for a client...")

			est, err := conn.Sessions.Serve(ctx, cfg)
			if err != nil {
				return err
			}
			printEstablished(est)
			return hold(ctx, conn, est)
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "session password clients must supply")
	cmd.Flags().BoolVar(&randomPass, "random-password", false, "generate a 9-digit session password")
	cmd.Flags().StringVar(&mode, "mode", "", "view_only, full_control or file_transfer (default from config)")
	cmd.Flags().StringVar(&quality, "quality", "", "low, medium, high or adaptive (default from config)")
	cmd.Flags().BoolVar(&noClipboard, "no-clipboard", false, "disable clipboard sync")
	return cmd
}
