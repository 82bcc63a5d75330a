package logging

import "context"

type contextKey string

const (
	panelIDKey       contextKey = "panel_id"
	inspectionSeqKey contextKey = "inspection_seq"
)

// WithPanelID tags the context with the id of the review panel handling it.
func WithPanelID(ctx context.Context, panelID string) context.Context {
	return context.WithValue(ctx, panelIDKey, panelID)
}

// WithInspectionSeq tags the context with an inspection sequence number.
func WithInspectionSeq(ctx context.Context, seq uint64) context.Context {
	return context.WithValue(ctx, inspectionSeqKey, seq)
}

// PanelID returns the panel id stored in ctx, or "".
func PanelID(ctx context.Context) string {
	if id, ok := ctx.Value(panelIDKey).(string); ok {
		return id
	}
	return ""
}

// InspectionSeq returns the inspection sequence stored in ctx. The second
// result is false when none is present.
func InspectionSeq(ctx context.Context) (uint64, bool) {
	seq, ok := ctx.Value(inspectionSeqKey).(uint64)
	return seq, ok
}
