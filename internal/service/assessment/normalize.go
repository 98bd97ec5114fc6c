package assessment

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Alijeyrad/eunoia_backend/pkg/util/numeric"
)

// RawAnswers is the client answer payload before normalization. Values is the
// ordered list form; Keyed maps question ids to values. When Values is non-nil
// it takes precedence over Keyed.
type RawAnswers struct {
	Values []any
	Keyed  map[string]any
}

// AnswerVector is a normalized answer list whose length equals the definition
// length and whose entries are within the definition's value range.
type AnswerVector []int

// Total sums the vector.
func (v AnswerVector) Total() int {
	total := 0
	for _, a := range v {
		total += a
	}
	return total
}

// Normalize turns raw answers into an AnswerVector for t. Missing, null and
// blank answers count as 0.
func Normalize(t QuestionnaireType, raw RawAnswers) (AnswerVector, error) {
	def, ok := Lookup(t)
	if !ok {
		return nil, invalidAnswer("assessmentType", fmt.Sprintf("unsupported questionnaire %q", t))
	}

	out := make(AnswerVector, def.Len())

	if raw.Values != nil {
		if len(raw.Values) > def.Len() {
			return nil, invalidAnswer(
				fmt.Sprintf("answers[%d]", def.Len()),
				fmt.Sprintf("%s has %d questions, got %d answers", t, def.Len(), len(raw.Values)),
			)
		}
		for i, v := range raw.Values {
			n, err := coerceAnswer(def, def.Questions[i].ID, v)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	}

	for i, key := range keyedIDs(def, raw.Keyed) {
		n, err := coerceAnswer(def, key, raw.Keyed[key])
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// keyedIDs picks the keys to read from a keyed payload. Question ids win;
// when none of them is present, older clients' positional q1..qN keys are
// read instead.
func keyedIDs(def Definition, keyed map[string]any) []string {
	ids := make([]string, def.Len())
	found := false
	for i, q := range def.Questions {
		ids[i] = q.ID
		if _, ok := keyed[q.ID]; ok {
			found = true
		}
	}
	if !found {
		for i := range ids {
			ids[i] = "q" + strconv.Itoa(i+1)
		}
	}
	return ids
}

func coerceAnswer(def Definition, id string, v any) (int, error) {
	n, present, err := numeric.Int(v)
	switch {
	case errors.Is(err, numeric.ErrNotInteger):
		return 0, invalidAnswer(id, "answer must be a whole number")
	case err != nil:
		return 0, invalidAnswer(id, "answer must be numeric")
	case !present:
		return 0, nil
	}
	if n < def.MinValue || n > def.MaxValue {
		return 0, invalidAnswer(id, fmt.Sprintf("answer must be between %d and %d", def.MinValue, def.MaxValue))
	}
	return n, nil
}
