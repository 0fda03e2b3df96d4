package feedback

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tiktoken-go/tokenizer"

	"github.com/marcusbk37/go-roleplay/internal/log"
	"github.com/marcusbk37/go-roleplay/pkg/llm/anthropic"
	"github.com/marcusbk37/go-roleplay/pkg/retrieval"
	"github.com/marcusbk37/go-roleplay/pkg/scenario"
)

const (
	defaultMaxTokens   = 4000
	analysisTemp       = 0.3
	transcriptBudget   = 12000 // tokens reserved for the transcript body
	defaultRetrievalK  = retrieval.DefaultTopK
	analysisStyleBlock = `Your analysis should be:
- Specific and evidence-based (cite exact moments from the transcript)
- Balanced (acknowledge strengths AND areas for growth)
- Actionable (provide concrete suggestions for improvement)
- Empathetic yet direct`
)

// Completer is the slice of the LLM client the analyzer needs.
type Completer interface {
	Messages(ctx context.Context, req *anthropic.Request) (*anthropic.Response, error)
}

// Analyzer turns a transcript into a Result with a single LLM call.
// It never retries on API or parse failure; retry policy belongs to
// the caller.
type Analyzer struct {
	llm       Completer
	retriever retrieval.Retriever
	model     string
	maxTokens int
	logger    *slog.Logger

	counter tokenizer.Codec
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithModel overrides the analysis model.
func WithModel(model string) AnalyzerOption {
	return func(a *Analyzer) { a.model = model }
}

// WithMaxTokens bounds the model's output budget.
func WithMaxTokens(n int) AnalyzerOption {
	return func(a *Analyzer) {
		if n > 0 {
			a.maxTokens = n
		}
	}
}

// WithRetriever enables reference-passage augmentation. A nil
// retriever disables it.
func WithRetriever(r retrieval.Retriever) AnalyzerOption {
	return func(a *Analyzer) { a.retriever = r }
}

// NewAnalyzer creates an Analyzer backed by the given LLM client.
func NewAnalyzer(llm Completer, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		llm:       llm,
		model:     anthropic.ModelSonnet,
		maxTokens: defaultMaxTokens,
		logger:    log.Component("feedback"),
	}
	for _, opt := range opts {
		opt(a)
	}
	// Token counting is an estimate used only for truncation; the
	// cl100k encoding is close enough across vendors.
	if codec, err := tokenizer.Get(tokenizer.Cl100kBase); err == nil {
		a.counter = codec
	}
	return a
}

// Usage mirrors the LLM token accounting for the analysis call.
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
}

// Analyze runs the full analysis pipeline: prompt construction,
// optional retrieval augmentation, one LLM call, and strict parsing of
// the model's JSON output.
func (a *Analyzer) Analyze(ctx context.Context, transcript []TranscriptEntry, objectives []string, scenarioType scenario.Type) (*Result, *Usage, error) {
	entries := a.truncate(transcript)
	transcriptText := FormatTranscript(entries)

	var refs []retrieval.Chunk
	if a.retriever != nil {
		refs = a.retriever.Query(ctx, transcriptText, defaultRetrievalK)
		if len(refs) == 0 {
			a.logger.Info("analysis proceeding without reference augmentation")
		}
	}

	req := &anthropic.Request{
		Model:       a.model,
		MaxTokens:   a.maxTokens,
		Temperature: analysisTemp,
		System:      systemPromptFor(scenarioType),
		Messages: []anthropic.Message{
			{Role: "user", Content: buildUserPrompt(transcriptText, objectives, refs)},
		},
	}

	resp, err := a.llm.Messages(ctx, req)
	if err != nil {
		return nil, nil, fmt.Errorf("feedback: analysis call failed: %w", err)
	}

	text, err := resp.Text()
	if err != nil {
		return nil, nil, &ParseError{Reason: "no text content", Cause: err}
	}

	result, err := parseResult(text)
	if err != nil {
		return nil, nil, err
	}
	MatchKeyMoments(result, transcript)

	usage := &Usage{
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}
	a.logger.Info("analysis complete",
		"score", result.OverallScore,
		"key_moments", len(result.KeyMoments),
		"entries", len(entries),
	)
	return result, usage, nil
}

// FormatTranscript renders entries as "speaker: text" blocks.
func FormatTranscript(entries []TranscriptEntry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%s: %s", e.Speaker, e.Text)
	}
	return strings.Join(parts, "\n\n")
}

// truncate drops oldest entries until the transcript fits the token
// budget. Recent turns matter most for scoring.
func (a *Analyzer) truncate(entries []TranscriptEntry) []TranscriptEntry {
	if a.counter == nil || len(entries) == 0 {
		return entries
	}
	total := 0
	counts := make([]int, len(entries))
	for i, e := range entries {
		ids, _, err := a.counter.Encode(e.Text)
		if err != nil {
			return entries
		}
		counts[i] = len(ids) + 8 // speaker tag and separators
		total += counts[i]
	}
	start := 0
	for total > transcriptBudget && start < len(entries)-1 {
		total -= counts[start]
		start++
	}
	if start > 0 {
		a.logger.Warn("transcript truncated for analysis", "dropped_entries", start)
	}
	return entries[start:]
}

func systemPromptFor(t scenario.Type) string {
	switch t {
	case scenario.TypeManagerTraining:
		return "You are an expert management and executive coach specializing in difficult workplace conversations. Analyze the transcript and provide constructive, actionable feedback focused on manager skills: empathy, clarity, active listening, and problem-solving.\n" + analysisStyleBlock
	case scenario.TypeSalesTraining:
		return "You are a top sales trainer and coach. Analyze the transcript and provide constructive, actionable feedback focused on sales skills: rapport-building, objection handling, value articulation, and emotional intelligence.\n" + analysisStyleBlock
	case scenario.TypeInterviewTraining:
		return "You are an expert interview coach. Analyze the transcript and provide constructive, actionable feedback focused on interview skills: clarity, confidence, relevance, and rapport.\n" + analysisStyleBlock
	default:
		return "You are an expert coach. Analyze the transcript and provide constructive, actionable feedback.\n" + analysisStyleBlock
	}
}

func buildUserPrompt(transcriptText string, objectives []string, refs []retrieval.Chunk) string {
	var b strings.Builder
	b.WriteString("Analyze this conversation transcript between a user and an AI roleplay. Your goal is to provide constructive, actionable feedback for the user to handle the AI better.\n\n")

	b.WriteString("OBJECTIVES FOR THIS CONVERSATION:\n")
	for i, obj := range objectives {
		fmt.Fprintf(&b, "%d. %s\n", i+1, obj)
	}

	if len(refs) > 0 {
		b.WriteString("\nRELEVANT REFERENCE MATERIAL:\n")
		for i, ref := range refs {
			fmt.Fprintf(&b, "[%d]", i+1)
			if ref.Source != "" {
				fmt.Fprintf(&b, " (%s", ref.Source)
				if ref.Author != "" {
					fmt.Fprintf(&b, ", %s", ref.Author)
				}
				b.WriteString(")")
			}
			fmt.Fprintf(&b, " %s\n", ref.Text)
		}
	}

	b.WriteString("\nTRANSCRIPT:\n")
	b.WriteString(transcriptText)

	b.WriteString(`

Please provide a detailed analysis in the following JSON format:
{
  "overallScore": <number 0-100>,
  "sentiment": "<Professional/Empathetic/Direct/Defensive/etc>",
  "positives": ["<specific positive observation with evidence>", ...],
  "improvements": ["<specific area to improve with suggestion>", ...],
  "objectivesAnalysis": {
    "achieved": [<indices of objectives that were achieved>],
    "notAchieved": [<indices of objectives that were not achieved>],
    "explanation": "<brief explanation of objective performance>"
  },
  "speakingBalance": {
    "managerPercentage": <estimated % the user spoke>,
    "assessment": "<whether balance was appropriate and why>"
  },
  "fillerWordsEstimate": <rough count of um, uh, like, etc>,
  "keyMoments": [
    {
      "timestamp": "<quote the speaker and moment>",
      "type": "positive" | "suggestion",
      "label": "<short label>",
      "explanation": "<why this moment was significant>",
      "suggestion": "<if type is suggestion, what to do differently>"
    }
  ],
  "nextSteps": ["<actionable recommendation for future conversations>", ...]
}

Be thorough but concise. Focus on practical, actionable insights.`)

	return b.String()
}
