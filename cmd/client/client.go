// Package client holds the companion commands that submit to a running
// server from the terminal under a persistent device identity.
package client

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Alijeyrad/eunoia_backend/config"
	"github.com/Alijeyrad/eunoia_backend/internal/apiclient"
	"github.com/Alijeyrad/eunoia_backend/pkg/constants"
	"github.com/Alijeyrad/eunoia_backend/pkg/deviceid"
)

func NewClientCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Submit moods, screenings and bookings to a running server",
		Long: `Companion commands for students. Submissions are grouped under an anonymous
device id that is created on first use and kept in the identity file. Pass a
student session token with --token to submit under an account instead.`,
	}

	f := cmd.PersistentFlags()
	f.String("server", "", "server base URL (client.base_url)")
	f.String("token", "", "student session token")
	f.String("identity-file", "", "device id file (client.identity_file)")
	f.Duration("timeout", 0, "request timeout (client.timeout_seconds)")

	cmd.AddCommand(newIDCommand())
	cmd.AddCommand(newMoodCommand())
	cmd.AddCommand(newAssessCommand())
	cmd.AddCommand(newBookCommand())
	cmd.AddCommand(newHistoryCommand())

	return cmd
}

// session is what every client subcommand needs.
type session struct {
	api *apiclient.Client
	ids *deviceid.Provider
}

// clientSettings merges, in rising precedence: defaults, the config file if
// present, EUNOIA_CLIENT_* variables and flags.
func clientSettings(cmd *cobra.Command) (apiclient.Config, string, error) {
	v := viper.New()
	v.SetDefault("client.base_url", "http://localhost:8080")
	v.SetDefault("client.timeout_seconds", 10)

	if cfgPath, err := cmd.Root().PersistentFlags().GetString("config"); err == nil && cfgPath != "" {
		v.SetConfigName(constants.ConfigName)
		v.SetConfigType(constants.ConfigFormat)
		v.AddConfigPath(filepath.Dir(cfgPath))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return apiclient.Config{}, "", fmt.Errorf("read config: %w", err)
			}
		}
	}

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	flags := cmd.Flags()
	_ = v.BindPFlag("client.base_url", flags.Lookup("server"))
	_ = v.BindPFlag("client.identity_file", flags.Lookup("identity-file"))

	cc := config.ClientConfig{
		BaseURL:        v.GetString("client.base_url"),
		IdentityFile:   v.GetString("client.identity_file"),
		TimeoutSeconds: v.GetInt("client.timeout_seconds"),
	}

	cfg := apiclient.FromCentralConfig(cc)
	if d, _ := flags.GetDuration("timeout"); d > 0 {
		cfg.Timeout = d
	}
	cfg.Token, _ = flags.GetString("token")
	return cfg, cc.IdentityFile, nil
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, identityFile, err := clientSettings(cmd)
	if err != nil {
		return nil, err
	}
	ids, err := deviceid.NewFileProvider(identityFile)
	if err != nil {
		return nil, err
	}
	return &session{api: apiclient.New(cfg, ids), ids: ids}, nil
}

func requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), time.Minute)
}

// ---------------------------------------------------------------------------
// id, history
// ---------------------------------------------------------------------------

func newIDCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "id",
		Short: "Print this device's anonymous id, creating it if needed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			id, err := s.ids.EnsureInitialized()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

func newHistoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show recent screenings, moods and bookings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()

			h, err := s.api.History(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Screenings (%d)\n", len(h.Assessments))
			for _, a := range h.Assessments {
				fmt.Fprintf(out, "  %s  %-5s %2d  %s\n", a.CreatedAt.Local().Format(time.DateTime), a.AssessmentType, a.TotalScore, a.Severity)
			}
			fmt.Fprintf(out, "Moods (%d)\n", len(h.Moods))
			for _, m := range h.Moods {
				fmt.Fprintf(out, "  %s  %d\n", m.CreatedAt.Local().Format(time.DateTime), m.Mood)
			}
			fmt.Fprintf(out, "Bookings (%d)\n", len(h.Bookings))
			for _, b := range h.Bookings {
				fmt.Fprintf(out, "  %s  %s\n", b.Slot.Local().Format(time.DateTime), b.Status)
			}
			return nil
		},
	}
}
