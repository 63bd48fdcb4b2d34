package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_DisabledIsNoop(t *testing.T) {
	logger, _ := test.NewNullLogger()
	m := NewManager(Config{Enabled: false}, logger)

	require.NoError(t, m.Initialize(context.Background()))
	require.NoError(t, m.Shutdown(context.Background()))

	ctx, span := StartSpan(context.Background(), "noop")
	defer span.End()
	RecordError(ctx, errors.New("ignored"))
	assert.Empty(t, TraceID(ctx))
}

func TestManager_StdoutExporterProducesTraceIDs(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	m := NewManager(Config{ServiceName: "contact-gateway", Enabled: true, UseStdout: true, SampleRate: 1}, logger)

	require.NoError(t, m.Initialize(context.Background()))
	t.Cleanup(func() { _ = m.Shutdown(context.Background()) })

	ctx, span := StartSpan(context.Background(), "submit")
	defer span.End()
	assert.Len(t, TraceID(ctx), 32)
	assert.NotNil(t, hook.LastEntry())
}
