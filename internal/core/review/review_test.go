package review

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelReview_Items(t *testing.T) {
	var nilReview *ModelReview
	assert.Nil(t, nilReview.Items())

	details := []Detail{{Category: "Bug"}}
	assert.Equal(t, details, (&ModelReview{Details: details}).Items())
	assert.Equal(t, details, (&ModelReview{Panels: details}).Items(), "falls back to panels")
}

func TestInspectionResult_Decode(t *testing.T) {
	raw := `[{"model_name":"Gemini","review":{"details":[{"category":"Bug","line_number":3,"description":"x","suggestion":"y"}]}},
	         {"model_name":"Claude","error":"quota exceeded"}]`

	var results []InspectionResult
	require.NoError(t, json.Unmarshal([]byte(raw), &results))
	require.Len(t, results, 2)

	assert.False(t, results[0].Failed())
	require.Len(t, results[0].Review.Items(), 1)
	assert.Equal(t, 3, results[0].Review.Items()[0].LineNumber)

	assert.True(t, results[1].Failed())
	assert.Nil(t, results[1].Review)
}

func TestConsolidatedIssue_Validate(t *testing.T) {
	issue := ConsolidatedIssue{
		IssueID:          "issue-1",
		ParticipatingAIs: []string{"Gemini", "Claude"},
		Suggestions: []Suggestion{
			{ModelName: "Gemini"},
			{ModelName: "Claude"},
			{ModelName: "Claude"},
		},
	}
	require.NoError(t, issue.Validate())
	assert.Len(t, issue.SuggestionsBy("Claude"), 2)

	issue.ParticipatingAIs = append(issue.ParticipatingAIs, "GPT-4o")
	assert.ErrorIs(t, issue.Validate(), ErrOrphanParticipant)
}

func TestReview_DecodeNumericIDAndNaiveTimestamp(t *testing.T) {
	raw := `{"id":42,"review_content":"plain","created_at":"2025-06-01T10:20:30.123456",
	         "chat_messages":[{"id":"7","role":"assistant","content":"hi","created_at":"2025-06-01T10:21:00Z"}]}`

	var r Review
	require.NoError(t, json.Unmarshal([]byte(raw), &r))

	assert.Equal(t, ID("42"), r.ID)
	n, ok := r.ID.Int()
	assert.True(t, ok)
	assert.Equal(t, int64(42), n)

	assert.Equal(t, time.Date(2025, 6, 1, 10, 20, 30, 123456000, time.UTC), r.CreatedAt.Time)
	require.Len(t, r.ChatMessages, 1)
	assert.Equal(t, RoleAssistant, r.ChatMessages[0].Role)
	assert.Equal(t, ID("7"), r.ChatMessages[0].ID)
}

func TestTimestamp_Empty(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`""`), &ts))
	assert.True(t, ts.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestTimestamp_MarshalRFC3339(t *testing.T) {
	ts := Timestamp{Time: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)}

	out, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.JSONEq(t, `"2025-01-02T03:04:05Z"`, string(out))
}

func TestPanel_ChatContext(t *testing.T) {
	p := Panel{Title: "SQL injection", Details: "use parameters"}
	assert.Equal(t, "Title: SQL injection\nDetails: use parameters", p.ChatContext())
}

func TestScanResult_SortBySeverity(t *testing.T) {
	r := ScanResult{Vulnerabilities: []Vulnerability{
		{ID: "a", Severity: SeverityLow},
		{ID: "b", Severity: "CRITICAL"},
		{ID: "c", Severity: SeverityMedium},
		{ID: "d", Severity: SeverityHigh},
		{ID: "e", Severity: "unknown"},
		{ID: "f", Severity: SeverityHigh},
	}}

	r.SortBySeverity()

	var ids []string
	for _, v := range r.Vulnerabilities {
		ids = append(ids, v.ID)
	}
	assert.Equal(t, []string{"b", "d", "f", "c", "a", "e"}, ids)

	counts := r.CountBySeverity()
	assert.Equal(t, 2, counts[SeverityHigh])
	assert.Equal(t, 1, counts[SeverityCritical])
}
