package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHook_Run(t *testing.T) {
	tests := []struct {
		name      string
		setupCtx  func() context.Context
		wantKeys  []string
		wantEmpty []string
	}{
		{
			name: "panel and sequence",
			setupCtx: func() context.Context {
				ctx := WithPanelID(context.Background(), "panel-123")
				return WithInspectionSeq(ctx, 3)
			},
			wantKeys: []string{"panel_id", "inspection_seq"},
		},
		{
			name: "only panel",
			setupCtx: func() context.Context {
				return WithPanelID(context.Background(), "panel-123")
			},
			wantKeys:  []string{"panel_id"},
			wantEmpty: []string{"inspection_seq"},
		},
		{
			name:      "no context values",
			setupCtx:  context.Background,
			wantEmpty: []string{"panel_id", "inspection_seq"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			logger := zerolog.New(&buf).Hook(ContextHook{})
			logger.Info().Ctx(tt.setupCtx()).Msg("test")

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

			for _, key := range tt.wantKeys {
				assert.Contains(t, entry, key)
			}
			for _, key := range tt.wantEmpty {
				assert.NotContains(t, entry, key)
			}
		})
	}
}
