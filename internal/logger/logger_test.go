package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"prod", "dev", "local", "docker", "test"} {
		t.Run(env, func(t *testing.T) {
			l, level, err := NewLogger(env, "")
			require.NoError(t, err)
			assert.NotNil(t, l)
			if env == "test" {
				assert.Equal(t, zapcore.WarnLevel, level.Level())
			}
		})
	}

	_, _, err := NewLogger("staging", "")
	assert.Error(t, err)
}

func TestLevelOverride(t *testing.T) {
	_, level, err := NewLogger("prod", "debug")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, level.Level())

	require.NoError(t, ApplyLevel(level, "error"))
	assert.Equal(t, zapcore.ErrorLevel, level.Level())

	require.NoError(t, ApplyLevel(level, ""))
	assert.Equal(t, zapcore.ErrorLevel, level.Level(), "empty override keeps the level")

	assert.Error(t, ApplyLevel(level, "loud"))

	_, _, err = NewLogger("dev", "loud")
	assert.Error(t, err)
}

func TestContextLogger(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	l := zap.NewExample()
	ctx := ContextWithLogger(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}
