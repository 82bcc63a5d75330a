package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refixai/refix/internal/core/review"
)

func TestEncode_WireShape(t *testing.T) {
	tests := []struct {
		name string
		msg  interface{ Command() Command }
		want string
	}{
		{"ready", Ready{}, `{"command":"ready"}`},
		{"inspect", InspectCode{Code: "x := 1", Language: "go"}, `{"command":"inspectCode","code":"x := 1","language":"go"}`},
		{"apply", ApplySuggestion{Text: "y"}, `{"command":"applySuggestion","text":"y"}`},
		{"selected", CodeSelected{Text: "sel"}, `{"command":"codeSelected","text":"sel"}`},
		{"empty result", ReviewResult{Results: EmptyPayload()}, `{"command":"reviewResult","results":{"rawResults":[],"consolidatedIssues":[]}}`},
		{"error result", ReviewResult{Error: "no code"}, `{"command":"reviewResult","error":"no code"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Encode(tt.msg)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(out))
		})
	}
}

func TestHostMessage_RoundTrip(t *testing.T) {
	msgs := []HostMessage{
		Ready{},
		InspectCode{Code: "print(1)", Language: "python"},
		ApplySuggestion{Text: "print(2)"},
	}

	for _, msg := range msgs {
		data, err := Encode(msg)
		require.NoError(t, err)

		got, err := DecodeHostMessage(data)
		require.NoError(t, err)
		assert.Equal(t, msg, got)
	}
}

func TestWebviewMessage_RoundTrip(t *testing.T) {
	payload := &InspectionPayload{
		RawResults: []review.InspectionResult{{
			ModelName: "Gemini",
			Review: &review.ModelReview{Details: []review.Detail{
				{Category: "Bug", LineNumber: 3, Description: "x", Suggestion: "y"},
			}},
		}},
		ConsolidatedIssues: []review.ConsolidatedIssue{{
			IssueID:          "1",
			LineNumber:       3,
			Title:            "off by one",
			ParticipatingAIs: []string{"Gemini"},
			Suggestions:      []review.Suggestion{{ID: "s1", ModelName: "Gemini", Category: "Bug"}},
		}},
	}

	msgs := []WebviewMessage{
		CodeSelected{Text: "a"},
		ReviewResult{Results: payload},
		ReviewResult{Error: "boom"},
	}

	for _, msg := range msgs {
		data, err := Encode(msg)
		require.NoError(t, err)

		got, err := DecodeWebviewMessage(data)
		require.NoError(t, err)
		assert.Equal(t, msg, got)
	}
}

func TestDecode_UnknownCommand(t *testing.T) {
	_, err := DecodeHostMessage([]byte(`{"command":"launchMissiles"}`))
	require.ErrorIs(t, err, ErrUnknownCommand)

	// direction matters: codeSelected is not a host-bound message
	_, err = DecodeHostMessage([]byte(`{"command":"codeSelected","text":"x"}`))
	require.ErrorIs(t, err, ErrUnknownCommand)

	_, err = DecodeWebviewMessage([]byte(`{"command":"ready"}`))
	require.ErrorIs(t, err, ErrUnknownCommand)

	_, err = DecodeWebviewMessage([]byte(`{}`))
	require.ErrorIs(t, err, ErrUnknownCommand)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := DecodeHostMessage([]byte(`not json`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownCommand)

	_, err = DecodeHostMessage([]byte(`{"command":"inspectCode","code":5}`))
	require.Error(t, err)
}

func TestInspectionPayload_IsEmpty(t *testing.T) {
	var nilPayload *InspectionPayload
	assert.True(t, nilPayload.IsEmpty())
	assert.True(t, EmptyPayload().IsEmpty())
	assert.False(t, (&InspectionPayload{RawResults: []review.InspectionResult{{ModelName: "m"}}}).IsEmpty())
}
