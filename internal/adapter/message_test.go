package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kapu/anilist-explorer-go/internal/domain"
)

func TestParseMessage(t *testing.T) {
	ma := NewMessageAdapter("")

	cases := []struct {
		line   string
		want   domain.CommandType
		params map[string]any
	}{
		{"search Bleach", domain.CommandSearch, map[string]any{"term": "Bleach"}},
		{"s  one   piece", domain.CommandSearch, map[string]any{"term": "one piece"}},
		{"Fullmetal Alchemist", domain.CommandSearch, map[string]any{"term": "Fullmetal Alchemist"}},
		{"more", domain.CommandMoreResults, map[string]any{}},
		{"retry", domain.CommandRefresh, map[string]any{}},
		{"detail 5-12", domain.CommandDetail, map[string]any{"target": Target{Key: "5-12"}}},
		{"select 2", domain.CommandSelect, map[string]any{"target": Target{Position: 2}}},
		{"open #269", domain.CommandSelect, map[string]any{"target": Target{ID: 269}}},
		{"cast", domain.CommandMoreCast, map[string]any{}},
		{"d 3", domain.CommandDetail, map[string]any{"target": Target{Position: 3}}},
		{"fav", domain.CommandFavorite, map[string]any{}},
		{"FAVS", domain.CommandFavorites, map[string]any{}},
		{"rm #5", domain.CommandUnfavorite, map[string]any{"target": Target{ID: 5}}},
		{"?", domain.CommandHelp, map[string]any{}},
		{"exit", domain.CommandQuit, map[string]any{}},
		{"   ", domain.CommandUnknown, map[string]any{}},
		{"select zero", domain.CommandUnknown, map[string]any{}},
	}

	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			parsed := ma.ParseMessage(tc.line)
			require.NotNil(t, parsed)
			assert.Equal(t, tc.want, parsed.Type)
			assert.Equal(t, tc.params, parsed.Params)
		})
	}
}

func TestParseMessageWithPrefix(t *testing.T) {
	ma := NewMessageAdapter("/")

	assert.Equal(t, domain.CommandSearch, ma.ParseMessage("/search Bleach").Type)
	assert.Equal(t, domain.CommandUnknown, ma.ParseMessage("Bleach").Type)
	assert.Equal(t, domain.CommandUnknown, ma.ParseMessage("/whatever").Type)
}

func TestParseTarget(t *testing.T) {
	target, ok := ParseTarget("4")
	assert.True(t, ok)
	assert.Equal(t, Target{Position: 4}, target)

	target, ok = ParseTarget("#17")
	assert.True(t, ok)
	assert.Equal(t, Target{ID: 17}, target)

	target, ok = ParseTarget("17-3")
	assert.True(t, ok)
	assert.Equal(t, Target{Key: "17-3"}, target)
	assert.False(t, target.IsZero())

	for _, bad := range []string{"", "0", "-1", "#", "#0", "abc", "5-", "-5-1"} {
		_, ok := ParseTarget(bad)
		assert.False(t, ok, bad)
	}
}
