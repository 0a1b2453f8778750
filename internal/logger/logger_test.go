package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Environments(t *testing.T) {
	t.Parallel()

	for _, env := range []string{"prod", "local", "test"} {
		l, err := New(env, "")
		if err != nil {
			t.Fatalf("New(%q): %v", env, err)
		}
		if l == nil {
			t.Fatalf("New(%q) returned nil logger", env)
		}
	}
}

func TestNew_UnknownEnv(t *testing.T) {
	t.Parallel()

	if _, err := New("staging", ""); err == nil {
		t.Fatal("expected error for unknown env")
	}
}

func TestNew_LevelOverride(t *testing.T) {
	t.Parallel()

	l, err := New("prod", "warn")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Fatal("info should be disabled at warn level")
	}
	if !l.Core().Enabled(zapcore.WarnLevel) {
		t.Fatal("warn should be enabled")
	}

	if _, err := New("prod", "loud"); err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext without logger returned nil")
	}

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := WithContext(context.Background(), zap.New(core))
	FromContext(ctx).Info("hello")

	if got := logs.FilterMessage("hello").Len(); got != 1 {
		t.Fatalf("logged %d entries want 1", got)
	}
}
