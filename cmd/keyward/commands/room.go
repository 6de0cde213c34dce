package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func roomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Inspect room encryption",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "encrypted <room-id>",
		Short: "Report whether a room has encryption enabled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ensureReady(cmd.Context()); err != nil {
				return err
			}
			encrypted, err := appCtx.Crypto.IsRoomEncrypted(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), encrypted)
			return nil
		},
	})
	return cmd
}
