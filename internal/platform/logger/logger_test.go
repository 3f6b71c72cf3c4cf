package logger

import (
	"testing"
	"time"

	"github.com/nulzo/metasearch/internal/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestBuild(t *testing.T) {
	t.Cleanup(func() { cli.SetEnabled(true) })

	l, level, err := Build(Config{Level: "debug", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, l)
	assert.Equal(t, zapcore.DebugLevel, level.Level())
	assert.False(t, cli.Enabled())

	l, level, err = Build(Config{Level: "bogus", Format: "console", EnableColor: true})
	require.NoError(t, err)
	assert.NotNil(t, l)
	assert.Equal(t, zapcore.InfoLevel, level.Level())
	assert.True(t, cli.Enabled())
}

func TestColoredConsoleEncoder_HighlightsFields(t *testing.T) {
	prev := cli.Enabled()
	cli.SetEnabled(true)
	t.Cleanup(func() { cli.SetEnabled(prev) })

	enc := NewColoredConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	buf, err := enc.EncodeEntry(zapcore.Entry{
		Level:   zapcore.InfoLevel,
		Time:    time.Unix(0, 0),
		Message: "Provider answered",
	}, []zapcore.Field{zap.String("provider", "groq")})
	require.NoError(t, err)

	line := buf.String()
	assert.Contains(t, line, "Provider answered")
	assert.Contains(t, line, cli.Blue+`"provider"`)
	assert.Contains(t, line, cli.Green+`"groq"`)
}
