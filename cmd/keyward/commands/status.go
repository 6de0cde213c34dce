package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"keyward/internal/domain"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show stored identity and the server's one-time key counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := appCtx.Store
			deviceID, err := st.LoadDeviceID()
			if err != nil {
				return err
			}
			userID, err := st.LoadUserID()
			if err != nil {
				return err
			}
			pickled, err := st.LoadPickledAccount()
			if err != nil {
				return err
			}
			pickleKey, err := st.LoadPickleKey()
			if err != nil {
				return err
			}
			state := domain.AccountState{PickledAccount: pickled, PickleKey: pickleKey}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "User:    %s\n", orNone(userID))
			fmt.Fprintf(out, "Device:  %s\n", orNone(deviceID))
			fmt.Fprintf(out, "Account: %s\n", accountStatus(state))

			counts, err := appCtx.Homeserver.CheckOneTimeKeyCounts(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "One-time keys on server: %d signed, %d unsigned\n",
				counts.Signed(), counts[domain.AlgorithmCurve25519])
			return nil
		},
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func accountStatus(state domain.AccountState) string {
	switch {
	case state.Usable():
		return "stored"
	case len(state.PickledAccount) > 0:
		return "pickle key missing"
	case len(state.PickleKey) > 0:
		return "pickle missing"
	default:
		return "(none)"
	}
}
