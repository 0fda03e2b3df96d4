// Package feedback turns a finished conversation transcript into a
// structured coaching analysis via a single LLM call.
package feedback

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TranscriptEntry is one spoken message, tagged with the speaker and
// the wall-clock offset from session start.
type TranscriptEntry struct {
	Speaker       string  `json:"speaker"` // "user" or "assistant"
	Text          string  `json:"text"`
	OffsetSeconds float64 `json:"offset_seconds"`
}

// ObjectivesAnalysis reports which scenario objectives were met,
// by index into the objectives list.
type ObjectivesAnalysis struct {
	Achieved    []int  `json:"achieved"`
	NotAchieved []int  `json:"notAchieved"`
	Explanation string `json:"explanation"`
}

// SpeakingBalance estimates how much of the conversation the user
// carried.
type SpeakingBalance struct {
	UserPercentage int    `json:"managerPercentage"`
	Assessment     string `json:"assessment"`
}

// KeyMoment is a notable exchange the model calls out. Quote holds the
// model's citation of the moment; OffsetSeconds is filled in afterward
// by matching the quote against the transcript, and stays negative
// when no entry matches.
type KeyMoment struct {
	Quote         string  `json:"timestamp"`
	Type          string  `json:"type"` // "positive" or "suggestion"
	Label         string  `json:"label"`
	Explanation   string  `json:"explanation"`
	Suggestion    string  `json:"suggestion,omitempty"`
	OffsetSeconds float64 `json:"offset_seconds"`
}

// Result is the full analysis of one session.
type Result struct {
	OverallScore       int                `json:"overallScore"`
	Sentiment          string             `json:"sentiment"`
	Positives          []string           `json:"positives"`
	Improvements       []string           `json:"improvements"`
	ObjectivesAnalysis ObjectivesAnalysis `json:"objectivesAnalysis"`
	SpeakingBalance    SpeakingBalance    `json:"speakingBalance"`
	FillerWordsCount   int                `json:"fillerWordsEstimate"`
	KeyMoments         []KeyMoment        `json:"keyMoments"`
	NextSteps          []string           `json:"nextSteps"`

	// Degraded is set on placeholder results produced when analysis
	// failed; the transcript is still kept.
	Degraded bool `json:"degraded,omitempty"`
}

// ParseError reports a model response that could not be parsed or
// failed schema validation. It is fatal to the analysis call but not
// to the session.
type ParseError struct {
	Reason string
	Raw    string
	Cause  error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("feedback: parse analysis: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("feedback: parse analysis: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// stripFences removes surrounding markdown code-fence markers. The
// model sometimes wraps its JSON in ```json ... ``` blocks. Only the
// outermost markers are stripped: a fence inside a JSON string value
// is payload, not markup.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

// parseResult decodes and validates the model's JSON output.
func parseResult(text string) (*Result, error) {
	cleaned := stripFences(text)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, &ParseError{Reason: "invalid JSON", Raw: text, Cause: err}
	}

	for _, field := range []string{"overallScore", "sentiment", "positives", "improvements", "objectivesAnalysis"} {
		if _, ok := raw[field]; !ok {
			return nil, &ParseError{Reason: fmt.Sprintf("missing required field %q", field), Raw: text}
		}
	}

	var res Result
	if err := json.Unmarshal([]byte(cleaned), &res); err != nil {
		return nil, &ParseError{Reason: "field type mismatch", Raw: text, Cause: err}
	}

	if res.OverallScore < 0 || res.OverallScore > 100 {
		return nil, &ParseError{Reason: fmt.Sprintf("overallScore %d out of range [0,100]", res.OverallScore), Raw: text}
	}
	for i, m := range res.KeyMoments {
		if m.Type != "positive" && m.Type != "suggestion" {
			return nil, &ParseError{Reason: fmt.Sprintf("keyMoments[%d] has unknown type %q", i, m.Type), Raw: text}
		}
		res.KeyMoments[i].OffsetSeconds = -1
	}
	return &res, nil
}

// DegradedResult is the placeholder attached to a session whose
// analysis failed. Scores are zeroed so the session is still recorded
// without fabricating feedback.
func DegradedResult() *Result {
	return &Result{
		OverallScore: 0,
		Sentiment:    "Unavailable",
		Positives:    []string{},
		Improvements: []string{},
		ObjectivesAnalysis: ObjectivesAnalysis{
			Achieved:    []int{},
			NotAchieved: []int{},
			Explanation: "Session completed, but automated analysis was unavailable.",
		},
		KeyMoments: []KeyMoment{},
		NextSteps:  []string{},
		Degraded:   true,
	}
}
