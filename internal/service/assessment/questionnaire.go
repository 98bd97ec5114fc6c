package assessment

import "strings"

// QuestionnaireType names a supported screening instrument.
type QuestionnaireType string

const (
	PHQ9 QuestionnaireType = "PHQ9"
	GAD7 QuestionnaireType = "GAD7"
)

func (t QuestionnaireType) String() string { return string(t) }

// Question is a single Likert item.
type Question struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Definition is the static description of an instrument. Definitions are
// shared read-only values and must not be mutated by callers.
type Definition struct {
	Type      QuestionnaireType `json:"type"`
	Title     string            `json:"title"`
	Questions []Question        `json:"questions"`
	MinValue  int               `json:"minValue"`
	MaxValue  int               `json:"maxValue"`
}

// Len is the number of items, which is also the answer vector length.
func (d Definition) Len() int { return len(d.Questions) }

// MaxScore is the highest total the instrument can produce.
func (d Definition) MaxScore() int { return d.Len() * d.MaxValue }

var definitions = map[QuestionnaireType]Definition{
	PHQ9: {
		Type:     PHQ9,
		Title:    "Patient Health Questionnaire (PHQ-9)",
		MinValue: 0,
		MaxValue: 3,
		Questions: []Question{
			{ID: "q1", Text: "Little interest or pleasure in doing things"},
			{ID: "q2", Text: "Feeling down, depressed, or hopeless"},
			{ID: "q3", Text: "Trouble falling or staying asleep, or sleeping too much"},
			{ID: "q4", Text: "Feeling tired or having little energy"},
			{ID: "q5", Text: "Poor appetite or overeating"},
			{ID: "q6", Text: "Feeling bad about yourself, or that you are a failure or have let yourself or your family down"},
			{ID: "q7", Text: "Trouble concentrating on things, such as reading the newspaper or watching television"},
			{ID: "q8", Text: "Moving or speaking so slowly that other people could have noticed, or the opposite, being so fidgety or restless that you have been moving around a lot more than usual"},
			{ID: "q9", Text: "Thoughts that you would be better off dead, or of hurting yourself in some way"},
		},
	},
	GAD7: {
		Type:     GAD7,
		Title:    "Generalized Anxiety Disorder (GAD-7)",
		MinValue: 0,
		MaxValue: 3,
		Questions: []Question{
			{ID: "g1", Text: "Feeling nervous, anxious, or on edge"},
			{ID: "g2", Text: "Not being able to stop or control worrying"},
			{ID: "g3", Text: "Worrying too much about different things"},
			{ID: "g4", Text: "Trouble relaxing"},
			{ID: "g5", Text: "Being so restless that it is hard to sit still"},
			{ID: "g6", Text: "Becoming easily annoyed or irritable"},
			{ID: "g7", Text: "Feeling afraid, as if something awful might happen"},
		},
	},
}

// Lookup returns the definition for t.
func Lookup(t QuestionnaireType) (Definition, bool) {
	d, ok := definitions[t]
	return d, ok
}

// Definitions lists every supported instrument in a stable order.
func Definitions() []Definition {
	return []Definition{definitions[PHQ9], definitions[GAD7]}
}

// ParseType maps client input such as "phq-9" or "GAD7" to a type. The
// second return value reports whether s was recognised; unrecognised or empty
// input yields PHQ9.
func ParseType(s string) (QuestionnaireType, bool) {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", ""))
	switch QuestionnaireType(norm) {
	case PHQ9:
		return PHQ9, true
	case GAD7:
		return GAD7, true
	}
	return PHQ9, false
}
