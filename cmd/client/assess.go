package client

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/eunoia_backend/internal/service/assessment"
)

func newAssessCommand() *cobra.Command {
	var qtype string

	cmd := &cobra.Command{
		Use:   "assess [answers...]",
		Short: "Complete a PHQ-9 or GAD-7 screening",
		Long: `Complete a screening. Answers may be given as arguments, one per item in
order; otherwise each question is asked interactively.`,
		Example: `  eunoia client assess --type GAD7 1 0 2 1 0 0 1
  eunoia client assess --type PHQ9`,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, known := assessment.ParseType(qtype)
			if !known {
				return fmt.Errorf("unknown questionnaire %q (use PHQ9 or GAD7)", qtype)
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()

			def, err := s.api.Questionnaire(ctx, t)
			if err != nil {
				return err
			}

			var answers []int
			if len(args) > 0 {
				answers, err = parseAnswers(*def, args)
			} else {
				answers, err = promptAnswers(*def, cmd.InOrStdin(), cmd.OutOrStdout())
			}
			if err != nil {
				return err
			}

			res, err := s.api.SubmitAssessment(ctx, t, answers)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s score %d of %d: %s\n", res.QuestionnaireType, res.TotalScore, def.MaxScore(), res.Severity)
			return nil
		},
	}

	cmd.Flags().StringVarP(&qtype, "type", "t", string(assessment.PHQ9), "questionnaire: PHQ9 or GAD7")

	return cmd
}

func parseAnswers(def assessment.Definition, args []string) ([]int, error) {
	if len(args) != def.Len() {
		return nil, fmt.Errorf("%s has %d items, got %d answers", def.Type, def.Len(), len(args))
	}
	out := make([]int, len(args))
	for i, a := range args {
		v, err := parseAnswer(def, a)
		if err != nil {
			return nil, fmt.Errorf("answer %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

func parseAnswer(def assessment.Definition, s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < def.MinValue || v > def.MaxValue {
		return 0, fmt.Errorf("%q is not a whole number from %d to %d", s, def.MinValue, def.MaxValue)
	}
	return v, nil
}

// promptAnswers asks every question in turn, re-asking on invalid input.
func promptAnswers(def assessment.Definition, in io.Reader, out io.Writer) ([]int, error) {
	fmt.Fprintf(out, "%s\nOver the last 2 weeks, how often have you been bothered by the following?\n", def.Title)
	fmt.Fprintf(out, "Answer %d (not at all) to %d (nearly every day).\n\n", def.MinValue, def.MaxValue)

	sc := bufio.NewScanner(in)
	answers := make([]int, 0, def.Len())
	for i, q := range def.Questions {
		for {
			fmt.Fprintf(out, "%d. %s: ", i+1, q.Text)
			if !sc.Scan() {
				if err := sc.Err(); err != nil {
					return nil, err
				}
				return nil, errors.New("input ended before all questions were answered")
			}
			v, err := parseAnswer(def, sc.Text())
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			answers = append(answers, v)
			break
		}
	}
	return answers, nil
}
