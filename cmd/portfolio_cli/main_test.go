package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupLogger(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		env      string
		debug    bool
		enabled  slog.Level
		disabled *slog.Level
	}{
		{name: "dev logs debug", env: envDev, enabled: slog.LevelDebug},
		{name: "prod logs warnings only", env: envProd, enabled: slog.LevelWarn, disabled: levelPtr(slog.LevelInfo)},
		{name: "debug flag wins over prod", env: envProd, debug: true, enabled: slog.LevelDebug},
		{name: "unknown env logs warnings", env: "staging", enabled: slog.LevelWarn, disabled: levelPtr(slog.LevelInfo)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := setupLogger(tt.env, tt.debug)

			assert.True(t, log.Handler().Enabled(ctx, tt.enabled))
			if tt.disabled != nil {
				assert.False(t, log.Handler().Enabled(ctx, *tt.disabled))
			}
		})
	}
}

func levelPtr(l slog.Level) *slog.Level { return &l }
