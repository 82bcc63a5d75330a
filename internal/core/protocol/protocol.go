// Package protocol defines the messages exchanged between the review panel
// host and its webview. Each direction is a closed set of variants encoded as
// a JSON object with a "command" discriminator and inline payload fields.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/refixai/refix/internal/core/review"
)

// Command is the wire discriminator.
type Command string

const (
	CmdReady           Command = "ready"
	CmdInspectCode     Command = "inspectCode"
	CmdApplySuggestion Command = "applySuggestion"
	CmdCodeSelected    Command = "codeSelected"
	CmdReviewResult    Command = "reviewResult"
)

// ErrUnknownCommand is returned when decoding a message whose command is not
// part of the expected direction.
var ErrUnknownCommand = errors.New("unknown command")

// HostMessage is a message sent by the webview to the host.
type HostMessage interface {
	Command() Command
	hostMessage()
}

// WebviewMessage is a message sent by the host to the webview.
type WebviewMessage interface {
	Command() Command
	webviewMessage()
}

// Ready signals the webview has mounted and can receive messages.
type Ready struct{}

// InspectCode asks the host to review Code.
type InspectCode struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// ApplySuggestion asks the host to replace the active editor buffer.
type ApplySuggestion struct {
	Text string `json:"text"`
}

// CodeSelected delivers the current editor selection to the webview.
type CodeSelected struct {
	Text string `json:"text"`
}

// InspectionPayload carries both halves of one inspection.
type InspectionPayload struct {
	RawResults         []review.InspectionResult  `json:"rawResults"`
	ConsolidatedIssues []review.ConsolidatedIssue `json:"consolidatedIssues"`
}

// EmptyPayload returns a payload with non-nil empty slices so it encodes as
// {"rawResults":[],"consolidatedIssues":[]}.
func EmptyPayload() *InspectionPayload {
	return &InspectionPayload{
		RawResults:         []review.InspectionResult{},
		ConsolidatedIssues: []review.ConsolidatedIssue{},
	}
}

// IsEmpty reports whether the payload holds no results.
func (p *InspectionPayload) IsEmpty() bool {
	return p == nil || (len(p.RawResults) == 0 && len(p.ConsolidatedIssues) == 0)
}

// ReviewResult delivers the outcome of an inspection. Error is set only for
// requests the host rejected outright.
type ReviewResult struct {
	Results *InspectionPayload `json:"results,omitempty"`
	Error   string             `json:"error,omitempty"`
}

func (Ready) Command() Command           { return CmdReady }
func (InspectCode) Command() Command     { return CmdInspectCode }
func (ApplySuggestion) Command() Command { return CmdApplySuggestion }
func (CodeSelected) Command() Command    { return CmdCodeSelected }
func (ReviewResult) Command() Command    { return CmdReviewResult }

func (Ready) hostMessage()           {}
func (InspectCode) hostMessage()     {}
func (ApplySuggestion) hostMessage() {}

func (CodeSelected) webviewMessage() {}
func (ReviewResult) webviewMessage() {}

type envelope struct {
	Command Command `json:"command"`
}

// Encode marshals a message of either direction into its wire form.
func Encode(msg interface{ Command() Command }) ([]byte, error) {
	var payload any
	switch m := msg.(type) {
	case Ready:
		payload = struct {
			Command Command `json:"command"`
		}{m.Command()}
	case InspectCode:
		payload = struct {
			Command Command `json:"command"`
			InspectCode
		}{m.Command(), m}
	case ApplySuggestion:
		payload = struct {
			Command Command `json:"command"`
			ApplySuggestion
		}{m.Command(), m}
	case CodeSelected:
		payload = struct {
			Command Command `json:"command"`
			CodeSelected
		}{m.Command(), m}
	case ReviewResult:
		payload = struct {
			Command Command `json:"command"`
			ReviewResult
		}{m.Command(), m}
	default:
		return nil, fmt.Errorf("encode %T: %w", msg, ErrUnknownCommand)
	}
	return json.Marshal(payload)
}

// DecodeHostMessage parses a webview→host message.
func DecodeHostMessage(data []byte) (HostMessage, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode host message: %w", err)
	}

	switch env.Command {
	case CmdReady:
		return Ready{}, nil
	case CmdInspectCode:
		var m InspectCode
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Command, err)
		}
		return m, nil
	case CmdApplySuggestion:
		var m ApplySuggestion
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Command, err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("host message %q: %w", env.Command, ErrUnknownCommand)
	}
}

// DecodeWebviewMessage parses a host→webview message.
func DecodeWebviewMessage(data []byte) (WebviewMessage, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode webview message: %w", err)
	}

	switch env.Command {
	case CmdCodeSelected:
		var m CodeSelected
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Command, err)
		}
		return m, nil
	case CmdReviewResult:
		var m ReviewResult
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Command, err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("webview message %q: %w", env.Command, ErrUnknownCommand)
	}
}
