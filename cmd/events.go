/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"log/slog"
	"os"

	"github.com/classhub/gateway/config"
	"github.com/classhub/gateway/internal/mq"
	"github.com/spf13/cobra"
)

// eventsCmd represents the events command.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Audit event utilities",
}

var eventsListenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Consume audit events and log them",
	Long: `Consumes the gateway's audit event channels from the configured
message broker and logs every delivery. Usage:

	gateway events listen
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		broker, err := mq.NewFromConfig(cmd.Context(), cfg.MQ)
		if err != nil {
			return err
		}
		if broker == nil {
			return errors.New("MQ_BACKEND is not configured")
		}
		defer func() {
			_ = broker.Close()
		}()

		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
		return mq.Listen(cmd.Context(), broker, logger,
			mq.EventUserRegistered,
			mq.EventRoleAssigned,
			mq.EventFileUploaded,
		)
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsListenCmd)
}
