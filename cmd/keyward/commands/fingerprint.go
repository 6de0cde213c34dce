package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func fingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint",
		Short: "Print the device fingerprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ensureReady(cmd.Context()); err != nil {
				return err
			}
			fp, err := appCtx.Crypto.Fingerprint()
			if err != nil {
				return err
			}
			keys, err := appCtx.Crypto.IdentityKeys()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Fingerprint: %s\n", fp)
			fmt.Fprintf(out, "Ed25519:     %s\n", keys.Ed25519)
			fmt.Fprintf(out, "Curve25519:  %s\n", keys.Curve25519)
			return nil
		},
	}
}
