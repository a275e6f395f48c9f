package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestGet_FallsBackToGlobal(t *testing.T) {
	assert.Same(t, zap.L(), Get(context.Background()))
	//nolint:staticcheck // nil context is part of the contract
	assert.Same(t, zap.L(), Get(nil))
}

func TestWith_RoundTrip(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	ctx := With(context.Background(), log)
	Get(ctx).Info("hello")

	assert.Equal(t, 1, logs.Len())
	assert.Same(t, log, Get(ctx))
}
