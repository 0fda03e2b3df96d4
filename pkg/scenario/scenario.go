// Package scenario defines the roleplay scenario catalog: the persona,
// system prompt, objectives, and tips that configure each practice
// conversation.
package scenario

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound indicates an unknown scenario id.
var ErrNotFound = errors.New("scenario: not found")

// Type is the coaching domain of a scenario. It changes the tone and
// focus of feedback analysis but not the required output shape.
type Type string

const (
	TypeManagerTraining      Type = "manager-training"
	TypeSalesTraining        Type = "sales-training"
	TypeInterviewTraining    Type = "interview-training"
	TypeRelationshipTraining Type = "relationship-training"
)

// Difficulty grades a scenario.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// PersonalityTrait describes persona behavior.
type PersonalityTrait string

const (
	TraitDefensive    PersonalityTrait = "defensive"
	TraitCooperative  PersonalityTrait = "cooperative"
	TraitEmotional    PersonalityTrait = "emotional"
	TraitAnalytical   PersonalityTrait = "analytical"
	TraitAntagonistic PersonalityTrait = "antagonistic"
)

// PerformanceIssue is a recent issue shown in the mission briefing.
type PerformanceIssue struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Persona configures the AI roleplay character.
type Persona struct {
	Name            string             `json:"name"`
	Title           string             `json:"title"`
	Voice           string             `json:"voice,omitempty"` // ITO, KORA, DACHER, AURA
	Temperament     int                `json:"temperament"`     // 0 predictable .. 100 unpredictable
	Personality     []PersonalityTrait `json:"personality"`
	DurationMinutes int                `json:"duration_minutes"`
	RecentIssues    []PerformanceIssue `json:"recent_issues,omitempty"`
}

// Context frames why the conversation is happening.
type Context struct {
	Backstory   string `json:"backstory"`
	MeetingDate string `json:"meeting_date,omitempty"`
	MeetingTime string `json:"meeting_time,omitempty"`
}

// Scenario is a static configuration bundle selecting the roleplay
// character and coaching domain.
type Scenario struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Difficulty   Difficulty `json:"difficulty"`
	Type         Type       `json:"type"`
	SystemPrompt string     `json:"-"` // sent to the voice session, not to browsers
	Objectives   []string   `json:"objectives"`
	Tips         []string   `json:"tips"`
	Persona      *Persona   `json:"persona,omitempty"`
	Context      *Context   `json:"context,omitempty"`

	// Optional sales-style fields.
	Domain       string `json:"domain,omitempty"`
	Challenge    string `json:"challenge,omitempty"`
	WinCondition string `json:"win_condition,omitempty"`
}

// Get returns the scenario with the given id.
func Get(id string) (*Scenario, error) {
	s, ok := catalog[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return s, nil
}

// List returns all scenarios ordered by id.
func List() []*Scenario {
	out := make([]*Scenario, 0, len(catalog))
	for _, s := range catalog {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ListByType returns scenarios of the given type ordered by id.
func ListByType(t Type) []*Scenario {
	var out []*Scenario
	for _, s := range catalog {
		if s.Type == t {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IDs returns all scenario ids in sorted order.
func IDs() []string {
	ids := make([]string, 0, len(catalog))
	for id := range catalog {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// BuildSystemPrompt returns the session system prompt. A curated
// prompt on the scenario wins; without one the prompt is assembled
// from the persona, backstory, and objectives.
func BuildSystemPrompt(s *Scenario) string {
	if s.SystemPrompt != "" {
		return s.SystemPrompt
	}
	if s.Persona == nil || s.Context == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are playing the role of %s, %s.\n\n", s.Persona.Name, s.Persona.Title)
	b.WriteString(s.Context.Backstory)
	b.WriteString("\n\nCONVERSATION GUIDELINES:\n")
	for _, obj := range s.Objectives {
		fmt.Fprintf(&b, "- %s\n", obj)
	}
	b.WriteString("\nKeep responses natural, conversational, and emotionally realistic.")
	return b.String()
}
