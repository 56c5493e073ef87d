package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"adaremote/internal/crypto"
)

func passwordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "password",
		Short: "Print a random 9-digit session password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), crypto.GenerateSessionPassword())
			return nil
		},
	}
}
