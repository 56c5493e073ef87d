package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"adaremote/internal/app"
	"adaremote/internal/config"
	"adaremote/internal/domain"
	"adaremote/internal/logging"
)

// Exit statuses; see doc.go.
const (
	exitOK = iota
	exitFailure
	exitSessionNotFound
	exitAuthFailed
	exitDecryption
)

var (
	home       string
	configPath string
	relayURL   string
	logLevel   string
	logFile    string

	wire *app.Wire
)

// Execute runs the root command.
func Execute() error { return newRoot().Execute() }

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "adaremote",
		Short:         "End-to-end encrypted remote desktop sessions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logging.InitLog(logLevel, logFile); err != nil {
				return err
			}
			if home == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				home = filepath.Dir(p)
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}
			if configPath == "" {
				configPath = filepath.Join(home, config.FileName)
			}
			client, err := config.Load(configPath)
			if err != nil {
				return err
			}
			wire, err = app.NewWire(app.Config{Home: home, Client: client, RelayURL: relayURL})
			return err
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&home, "home", "", "state dir (default ~/.adaremote)")
	pf.StringVar(&configPath, "config", "", "config file (default <home>/config.yaml)")
	pf.StringVar(&relayURL, "relay", "", "signaling server URL (e.g. ws://127.0.0.1:8080/ws)")
	pf.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVar(&logFile, "log-file", logging.Console, "log file path, or console")

	root.AddCommand(hostCmd(), connectCmd(), passwordCmd(), statusCmd(), disconnectCmd(), configCmd())
	return root
}

// ExitCode prints err and maps it to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return exitOK
	}
	fmt.Fprintln(os.Stderr, "Error:", describe(err))
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrAmbiguousSessionCode):
		return exitSessionNotFound
	case errors.Is(err, domain.ErrAuthenticationFailed):
		return exitAuthFailed
	case errors.Is(err, domain.ErrDecryption):
		return exitDecryption
	}
	return exitFailure
}

// describe turns the error kinds users can act on into plain advice.
func describe(err error) string {
	switch {
	case errors.Is(err, domain.ErrAmbiguousSessionCode):
		return "that code matches more than one session; enter the full session id"
	case errors.Is(err, domain.ErrSessionNotFound):
		return "no such session; check the session id or code"
	case errors.Is(err, domain.ErrAuthenticationFailed):
		return "the host rejected the password: " + err.Error()
	case errors.Is(err, domain.ErrDecryption):
		return "a message failed to decrypt; the connection may be tampered with"
	case errors.Is(err, domain.ErrParse):
		return "not a session id or 9-digit code: " + err.Error()
	}
	return err.Error()
}
