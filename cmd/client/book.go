package client

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/eunoia_backend/internal/apiclient"
)

func newBookCommand() *cobra.Command {
	var (
		slot string
		req  apiclient.BookRequest
	)

	cmd := &cobra.Command{
		Use:     "book",
		Short:   "Request a counseling session",
		Example: `  eunoia client book --slot 2026-11-02T14:00:00Z --counselor c1 --email me@uni.edu`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := time.Parse(time.RFC3339, slot)
			if err != nil {
				return fmt.Errorf("--slot must be an RFC 3339 time such as 2026-11-02T14:00:00Z: %w", err)
			}
			req.Slot = t

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()

			res, err := s.api.Book(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Booking %s requested for %s. It is pending until a counselor confirms.\n",
				res.BookingID, t.Local().Format(time.DateTime))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&slot, "slot", "", "session start time (RFC 3339)")
	f.StringVar(&req.StudentName, "name", "", "your name (defaults to Anonymous Student)")
	f.StringVar(&req.StudentEmail, "email", "", "email for confirmation messages")
	f.StringVar(&req.Reason, "reason", "", "short reason for the session")
	f.StringVar(&req.CounselorID, "counselor", "", "counselor id")
	_ = cmd.MarkFlagRequired("slot")

	return cmd
}
