package client

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newMoodCommand() *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "mood <1-5>",
		Short: "Log today's mood on a 1 to 5 scale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mood, err := strconv.Atoi(args[0])
			if err != nil || mood < 1 || mood > 5 {
				return fmt.Errorf("mood must be a whole number from 1 to 5, got %q", args[0])
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()

			if err := s.api.LogMood(ctx, mood, note); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Mood logged.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&note, "note", "n", "", "optional note")

	return cmd
}
