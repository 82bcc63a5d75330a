package host

import (
	"context"

	"github.com/refixai/refix/internal/api"
	"github.com/refixai/refix/internal/core/protocol"
	"github.com/refixai/refix/internal/core/review"
	"github.com/refixai/refix/internal/core/settings"
)

// ReplayInspector answers every inspection with a recorded payload. It lets
// the panel be exercised without a backend.
type ReplayInspector struct {
	Payload protocol.InspectionPayload
}

var _ Inspector = ReplayInspector{}

// Offline reports that replays need no credentials.
func (ReplayInspector) Offline() bool { return true }

func (r ReplayInspector) Inspect(ctx context.Context, _ settings.Settings, _ api.CodeRequest) ([]review.InspectionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.Payload.RawResults, nil
}

func (r ReplayInspector) InspectConsolidated(ctx context.Context, _ settings.Settings, _ api.CodeRequest) ([]review.ConsolidatedIssue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.Payload.ConsolidatedIssues, nil
}
