package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		env     string
		level   string
		want    zapcore.Level
		wantErr bool
	}{
		{env: "prod", want: zapcore.InfoLevel},
		{env: "local", want: zapcore.DebugLevel},
		{env: "prod", level: "warn", want: zapcore.WarnLevel},
		{env: "staging", wantErr: true},
		{env: "local", level: "loud", wantErr: true},
	}
	for _, tt := range tests {
		l, err := NewLogger(tt.env, tt.level)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NewLogger(%q, %q): expected error", tt.env, tt.level)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NewLogger(%q, %q): %v", tt.env, tt.level, err)
		}
		if !l.Core().Enabled(tt.want) {
			t.Errorf("NewLogger(%q, %q): level %v not enabled", tt.env, tt.level, tt.want)
		}
		if tt.want > zapcore.DebugLevel && l.Core().Enabled(tt.want-1) {
			t.Errorf("NewLogger(%q, %q): level %v should be disabled", tt.env, tt.level, tt.want-1)
		}
	}
}

func TestFromContextOr(t *testing.T) {
	base := zap.NewExample()
	req := zap.NewExample().Named("req")

	if got := FromContextOr(context.Background(), base); got != base {
		t.Error("expected fallback logger")
	}
	if got := FromContextOr(context.Background(), nil); got == nil {
		t.Error("expected no-op logger, got nil")
	}

	ctx := ContextWithLogger(context.Background(), req)
	if got := FromContextOr(ctx, base); got != req {
		t.Error("expected request logger from context")
	}
}
