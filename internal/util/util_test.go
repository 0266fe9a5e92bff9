package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestRenderDescription(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "   ", ""},
		{"plain", "Substitute Shinigami.", "Substitute Shinigami."},
		{"line breaks", "Height: 181 cm<br>Weight: 66 kg", "Height: 181 cm\nWeight: 66 kg"},
		{"italics", "He wields <i>Zangetsu</i>.", "He wields _Zangetsu_."},
		{"unknown tags reduced", "<b>Bold</b> and <a href=\"x\">link</a>", "Bold and link"},
		{"entities", "Tom &amp; Jerry", "Tom & Jerry"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RenderDescription(tc.raw))
		})
	}
}

func TestNormalizeSearchTerm(t *testing.T) {
	assert.Equal(t, "One Piece", NormalizeSearchTerm("  One   Piece \t"))
	assert.Equal(t, "", NormalizeSearchTerm(" \n "))
	// decomposed e + combining acute composes to a single rune
	assert.Equal(t, "Pok\u00e9mon", NormalizeSearchTerm("Poke\u0301mon"))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "abc", TruncateString("abc", 5))
	assert.Equal(t, "ab...", TruncateString("abcdef", 2))
	assert.Equal(t, "ブリ...", TruncateString("ブリーチ", 2))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("nonsense"))
}

func TestCircuitBreakerOpensAndRecovers(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(2, time.Minute, zap.NewNop())
	cb.now = func() time.Time { return now }

	cb.RecordFailure()
	assert.True(t, cb.CanExecute())

	cb.RecordFailure()
	assert.Equal(t, CircuitStateOpen, cb.State())
	assert.False(t, cb.CanExecute())
	assert.Equal(t, time.Minute, cb.RetryAfter())

	now = now.Add(time.Minute)
	assert.Equal(t, CircuitStateHalfOpen, cb.State())

	cb.RecordFailure()
	assert.Equal(t, CircuitStateOpen, cb.State())

	now = now.Add(2 * time.Minute)
	assert.True(t, cb.CanExecute())
	cb.RecordSuccess()
	assert.Equal(t, CircuitStateClosed, cb.State())
	assert.Zero(t, cb.RetryAfter())
}
