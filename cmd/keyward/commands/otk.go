package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"keyward/internal/domain"
)

func otkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "otk",
		Short: "Manage published one-time keys",
	}
	cmd.AddCommand(otkTopUpCmd(), otkUpdateCmd())
	return cmd
}

func otkTopUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "top-up",
		Short: "Replenish one-time keys from the server's current counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ensureReady(cmd.Context()); err != nil {
				return err
			}
			counts, err := appCtx.Crypto.TopUp(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Server had %d signed keys; topped up to target.\n", counts.Signed())
			return nil
		},
	}
}

func otkUpdateCmd() *cobra.Command {
	var signed, unsigned int
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Reconcile one-time keys against the given counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ensureReady(cmd.Context()); err != nil {
				return err
			}
			counts := domain.OneTimeKeyCounts{}
			if cmd.Flags().Changed("signed") {
				counts[domain.AlgorithmSignedCurve25519] = signed
			}
			if cmd.Flags().Changed("unsigned") {
				counts[domain.AlgorithmCurve25519] = unsigned
			}
			if err := appCtx.Crypto.UpdateCounts(cmd.Context(), counts); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "updated")
			return nil
		},
	}
	cmd.Flags().IntVar(&signed, "signed", 0, "signed_curve25519 count reported by the server")
	cmd.Flags().IntVar(&unsigned, "unsigned", 0, "curve25519 count reported by the server")
	return cmd
}
