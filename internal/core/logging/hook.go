package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook copies panel_id and inspection_seq from the event context.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if panelID := PanelID(ctx); panelID != "" {
		e.Str("panel_id", panelID)
	}

	if seq, ok := InspectionSeq(ctx); ok {
		e.Uint64("inspection_seq", seq)
	}
}
