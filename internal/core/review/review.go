// Package review holds the data model returned by the remote review API and
// the pure derivations the review panel computes over it.
package review

import (
	"errors"
	"fmt"
)

// Suggestion is one atomic recommendation produced by a reviewing model.
type Suggestion struct {
	ID          string `json:"id"`
	ModelName   string `json:"model_name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	LineNumber  int    `json:"line_number"`
	Suggestion  string `json:"suggestion"`
}

// Detail is the Suggestion-shaped record a model emits inside its review.
// Details carry no ID; one is synthesized when results are flattened.
type Detail struct {
	Category    string `json:"category"`
	LineNumber  int    `json:"line_number"`
	Description string `json:"description"`
	Details     string `json:"details,omitempty"`
	Suggestion  string `json:"suggestion"`
}

// ModelReview is the body of a single model's inspection output. Older
// backends send the list under "panels" instead of "details".
type ModelReview struct {
	Details []Detail `json:"details,omitempty"`
	Panels  []Detail `json:"panels,omitempty"`
}

// Items returns the detail list, falling back to panels.
func (r *ModelReview) Items() []Detail {
	if r == nil {
		return nil
	}
	if len(r.Details) > 0 {
		return r.Details
	}
	return r.Panels
}

// InspectionResult is the raw output of one model for one inspection call.
type InspectionResult struct {
	ModelName string       `json:"model_name"`
	Review    *ModelReview `json:"review,omitempty"`
	Error     string       `json:"error,omitempty"`
}

// Failed reports whether the model returned an error instead of a review.
func (r InspectionResult) Failed() bool {
	return r.Error != ""
}

// ConsolidatedIssue merges the suggestions of several models that address the
// same underlying problem.
type ConsolidatedIssue struct {
	IssueID          string       `json:"issue_id"`
	LineNumber       int          `json:"line_number"`
	Title            string       `json:"title"`
	ParticipatingAIs []string     `json:"participating_ais"`
	Suggestions      []Suggestion `json:"suggestions"`
}

// ErrOrphanParticipant is returned by Validate when a participating model has
// no suggestion in the issue.
var ErrOrphanParticipant = errors.New("participating model has no suggestion")

// Validate checks that every participating model contributed at least one
// suggestion.
func (c ConsolidatedIssue) Validate() error {
	seen := make(map[string]bool, len(c.Suggestions))
	for _, s := range c.Suggestions {
		seen[s.ModelName] = true
	}
	for _, ai := range c.ParticipatingAIs {
		if !seen[ai] {
			return fmt.Errorf("issue %s: %q: %w", c.IssueID, ai, ErrOrphanParticipant)
		}
	}
	return nil
}

// SuggestionsBy returns the suggestions in the issue contributed by model.
func (c ConsolidatedIssue) SuggestionsBy(model string) []Suggestion {
	var out []Suggestion
	for _, s := range c.Suggestions {
		if s.ModelName == model {
			out = append(out, s)
		}
	}
	return out
}

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry of a review's mentor conversation.
type ChatMessage struct {
	ID        ID        `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt Timestamp `json:"created_at"`
}

// Review is a generated review as persisted by the backend.
type Review struct {
	ID            ID            `json:"id"`
	ReviewContent string        `json:"review_content"`
	CreatedAt     Timestamp     `json:"created_at"`
	ChatMessages  []ChatMessage `json:"chat_messages"`
}

// Panel is one titled finding inside a structured review.
type Panel struct {
	Category   string `json:"category"`
	FileName   string `json:"file_name"`
	LineNumber int    `json:"line_number"`
	Title      string `json:"title"`
	Details    string `json:"details"`
}

// ChatContext formats the panel as the context string sent with a chat
// question.
func (p Panel) ChatContext() string {
	return fmt.Sprintf("Title: %s\nDetails: %s", p.Title, p.Details)
}
