package feedback

import (
	"errors"
	"testing"
)

const validAnalysisJSON = `{
  "overallScore": 78,
  "sentiment": "Empathetic",
  "positives": ["Opened with a positive observation"],
  "improvements": ["Let the employee finish before responding"],
  "objectivesAnalysis": {
    "achieved": [0, 1],
    "notAchieved": [2],
    "explanation": "Good rapport, weak on action planning."
  },
  "speakingBalance": {
    "managerPercentage": 60,
    "assessment": "Slightly manager-heavy but acceptable."
  },
  "fillerWordsEstimate": 7,
  "keyMoments": [
    {
      "timestamp": "user: I understand this has been a hard quarter",
      "type": "positive",
      "label": "Empathy",
      "explanation": "Acknowledged the employee's situation."
    }
  ],
  "nextSteps": ["Prepare a written improvement plan"]
}`

func TestParseResultPlain(t *testing.T) {
	res, err := parseResult(validAnalysisJSON)
	if err != nil {
		t.Fatalf("parseResult: %v", err)
	}
	if res.OverallScore != 78 {
		t.Errorf("overallScore = %d", res.OverallScore)
	}
	if res.Sentiment != "Empathetic" {
		t.Errorf("sentiment = %q", res.Sentiment)
	}
	if len(res.ObjectivesAnalysis.Achieved) != 2 || res.ObjectivesAnalysis.NotAchieved[0] != 2 {
		t.Errorf("objectivesAnalysis = %+v", res.ObjectivesAnalysis)
	}
	if res.SpeakingBalance.UserPercentage != 60 {
		t.Errorf("speaking balance = %d", res.SpeakingBalance.UserPercentage)
	}
	if len(res.KeyMoments) != 1 || res.KeyMoments[0].OffsetSeconds >= 0 {
		t.Errorf("key moment offsets must start unmatched: %+v", res.KeyMoments)
	}
}

func TestParseResultFenced(t *testing.T) {
	fenced := "```json\n" + validAnalysisJSON + "\n```"
	want, err := parseResult(validAnalysisJSON)
	if err != nil {
		t.Fatalf("plain parse: %v", err)
	}
	got, err := parseResult(fenced)
	if err != nil {
		t.Fatalf("fenced parse: %v", err)
	}
	if got.OverallScore != want.OverallScore || got.Sentiment != want.Sentiment ||
		len(got.KeyMoments) != len(want.KeyMoments) {
		t.Error("fenced payload parsed differently from bare payload")
	}
}

func TestParseResultInvalidJSON(t *testing.T) {
	_, err := parseResult("the conversation went well overall")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("err = %v, want ParseError", err)
	}
}

func TestParseResultSchemaValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing overallScore", `{"sentiment":"x","positives":[],"improvements":[],"objectivesAnalysis":{}}`},
		{"missing sentiment", `{"overallScore":50,"positives":[],"improvements":[],"objectivesAnalysis":{}}`},
		{"score out of range", `{"overallScore":140,"sentiment":"x","positives":[],"improvements":[],"objectivesAnalysis":{}}`},
		{"wrong field type", `{"overallScore":"high","sentiment":"x","positives":[],"improvements":[],"objectivesAnalysis":{}}`},
		{"unknown moment type", `{"overallScore":50,"sentiment":"x","positives":[],"improvements":[],"objectivesAnalysis":{},"keyMoments":[{"timestamp":"t","type":"neutral","label":"l","explanation":"e"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseResult(tt.body)
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("err = %v, want ParseError", err)
			}
			if parseErr.Reason == "" {
				t.Error("ParseError carries no diagnostic reason")
			}
		})
	}
}

func TestDegradedResult(t *testing.T) {
	res := DegradedResult()
	if !res.Degraded {
		t.Error("placeholder not marked degraded")
	}
	if res.OverallScore != 0 {
		t.Errorf("placeholder score = %d, want 0", res.OverallScore)
	}
	if res.Positives == nil || res.NextSteps == nil {
		t.Error("placeholder slices must be non-nil for JSON rendering")
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"```json\n{}\n```", "{}"},
		{"```\n{}\n```", "{}"},
		{"{}", "{}"},
		{"  {}  ", "{}"},
		// Fences inside string values are payload, not markup.
		{"{\"quote\":\"use ```go blocks```\"}", "{\"quote\":\"use ```go blocks```\"}"},
		{"```json\n{\"quote\":\"a ``` fence\"}\n```", "{\"quote\":\"a ``` fence\"}"},
	}
	for _, tt := range tests {
		if got := stripFences(tt.in); got != tt.want {
			t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
