package testutil

import (
	"context"
	"testing"
	"time"
)

// ContextWithTimeout возвращает context с timeout, отменяемый при завершении теста.
func ContextWithTimeout(tb testing.TB, d time.Duration) context.Context {
	tb.Helper()
	ctx, _ := ContextWithCancel(tb, d)
	return ctx
}

// ContextWithCancel возвращает context с timeout и функцией отмены для
// тестов, которые останавливают фоновые циклы (Simulation.Run, TickManager.Start).
func ContextWithCancel(tb testing.TB, d time.Duration) (context.Context, context.CancelFunc) {
	tb.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	tb.Cleanup(cancel)
	return ctx, cancel
}
