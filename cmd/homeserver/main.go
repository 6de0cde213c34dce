package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"keyward/internal/domain"
	"keyward/internal/homeserver"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		listen         string
		devices        []string
		encryptedRooms []string
		jsonLogs       bool
	)
	cmd := &cobra.Command{
		Use:          "homeserver",
		Short:        "In-memory development homeserver for keyward",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var handler slog.Handler = slog.NewTextHandler(cmd.ErrOrStderr(), nil)
			if jsonLogs {
				handler = slog.NewJSONHandler(cmd.ErrOrStderr(), nil)
			}
			logger := slog.New(handler)

			srv := homeserver.New(logger)
			for _, entry := range devices {
				token, userID, deviceID, err := parseDevice(entry)
				if err != nil {
					return err
				}
				srv.AddDevice(token, userID, deviceID)
				logger.Info("registered device", "user_id", userID, "device_id", deviceID)
			}
			for _, roomID := range encryptedRooms {
				content := map[string]string{"algorithm": domain.AlgorithmMegolm}
				if err := srv.SetRoomState(roomID, domain.EventTypeRoomEncryption, "", content); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return serve(ctx, listen, homeserver.AccessLog(srv.Handler(), logger), logger)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", ":8008", "listen address")
	cmd.Flags().StringArrayVar(&devices, "device", []string{"devtoken:@bot:localhost:DEVICE"},
		"token:user_id:device_id to accept (repeatable)")
	cmd.Flags().StringArrayVar(&encryptedRooms, "encrypted-room", nil, "room id with m.room.encryption set (repeatable)")
	cmd.Flags().BoolVar(&jsonLogs, "json", false, "log as JSON")
	return cmd
}

// parseDevice splits "token:@user:server:DEVICE". User ids contain a colon,
// so the token is the first field and the device id the last.
func parseDevice(entry string) (string, string, string, error) {
	token, rest, ok := strings.Cut(entry, ":")
	if !ok {
		return "", "", "", fmt.Errorf("device %q: want token:user_id:device_id", entry)
	}
	i := strings.LastIndex(rest, ":")
	if i <= 0 || i == len(rest)-1 || token == "" {
		return "", "", "", fmt.Errorf("device %q: want token:user_id:device_id", entry)
	}
	return token, rest[:i], rest[i+1:], nil
}

func serve(ctx context.Context, addr string, h http.Handler, logger *slog.Logger) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		logger.Info("homeserver listening", "addr", addr)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
