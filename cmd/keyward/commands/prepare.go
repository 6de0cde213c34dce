package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func prepareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prepare [room-id...]",
		Short: "Bootstrap the device identity and publish keys",
		Long: "Resolve the device id, create or load the account, upload device keys and " +
			"one-time keys as needed. Rooms given as arguments replace the configured rooms.",
		RunE: func(cmd *cobra.Command, args []string) error {
			rooms := appCtx.Config.Rooms
			if len(args) > 0 {
				rooms = args
			}
			if err := appCtx.Crypto.Prepare(cmd.Context(), rooms); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Ready.\nDevice: %s\n", appCtx.Crypto.ClientDeviceID())
			fp, err := appCtx.Crypto.Fingerprint()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Fingerprint: %s\n", fp)
			for _, roomID := range rooms {
				config, _ := appCtx.Rooms.RoomConfig(roomID)
				if config.Algorithm == "" {
					fmt.Fprintf(out, "Room %s: not encrypted\n", roomID)
					continue
				}
				fmt.Fprintf(out, "Room %s: %s\n", roomID, config.Algorithm)
			}
			return nil
		},
	}
}
