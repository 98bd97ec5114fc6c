package assessment

// Severity is a clinical band label.
type Severity string

const (
	SeverityMinimal          Severity = "minimal"
	SeverityMild             Severity = "mild"
	SeverityModerate         Severity = "moderate"
	SeverityModeratelySevere Severity = "moderately severe"
	SeveritySevere           Severity = "severe"
)

func (s Severity) String() string { return string(s) }

// Rank orders labels from least to most severe. Unknown labels rank -1.
func (s Severity) Rank() int {
	switch s {
	case SeverityMinimal:
		return 0
	case SeverityMild:
		return 1
	case SeverityModerate:
		return 2
	case SeverityModeratelySevere:
		return 3
	case SeveritySevere:
		return 4
	}
	return -1
}

// Severities lists the label vocabulary in ascending order.
func Severities() []Severity {
	return []Severity{SeverityMinimal, SeverityMild, SeverityModerate, SeverityModeratelySevere, SeveritySevere}
}

type band struct {
	maxInclusive int
	label        Severity
}

// Bands are ascending and contiguous from 0; the last band is open-ended.
var severityBands = map[QuestionnaireType][]band{
	PHQ9: {
		{4, SeverityMinimal},
		{9, SeverityMild},
		{14, SeverityModerate},
		{19, SeverityModeratelySevere},
		{27, SeveritySevere},
	},
	GAD7: {
		{4, SeverityMinimal},
		{9, SeverityMild},
		{14, SeverityModerate},
		{21, SeveritySevere},
	},
}

// Classify maps a total score to its band. Negative scores are treated as 0
// and scores above the highest band saturate to the most severe label.
// Unknown types are classified with the PHQ9 table.
func Classify(t QuestionnaireType, totalScore int) Severity {
	bands, ok := severityBands[t]
	if !ok {
		bands = severityBands[PHQ9]
	}
	if totalScore < 0 {
		totalScore = 0
	}
	for _, b := range bands {
		if totalScore <= b.maxInclusive {
			return b.label
		}
	}
	return bands[len(bands)-1].label
}
