package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogUseCaseObserver(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	obs := NewLogUseCaseObserver(logger, slog.LevelDebug)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:     "save-as",
		Duration: 3 * time.Millisecond,
		Success:  true,
		Fields:   map[string]any{"path": "/tmp/p.xml"},
	})
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "use_case=save-as")
	assert.Contains(t, buf.String(), "path=/tmp/p.xml")

	buf.Reset()
	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "open-document", Err: errors.New("boom")})
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "error=boom")
}

func TestLogUseCaseObserver_LevelGated(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	NewLogUseCaseObserver(logger, slog.LevelDebug).ObserveUseCase(context.Background(), UseCaseEvent{Name: "quiet", Success: true})
	assert.Empty(t, buf.String())
}

func TestUseCaseObserverOrNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop(nil))
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil, slog.LevelInfo))

	rec := &recordingObserver{}
	assert.Same(t, rec, useCaseObserverOrNoop([]UseCaseObserver{nil, rec}))
}
