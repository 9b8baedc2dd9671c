package topics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pressgen/internal/config"
)

type stubGenerator struct {
	response string
	err      error
}

func (s *stubGenerator) Complete(_ context.Context, _ string, _ string) (string, error) {
	return s.response, s.err
}

func promptedSite() config.SiteProfile {
	return config.SiteProfile{
		ID:          "lifestyle",
		Name:        "Lifestyle Site",
		TopicPrompt: "Propose topics about home and garden trends.",
	}
}

func TestSuggestPicksFromProposedTopics(t *testing.T) {
	gen := &stubGenerator{response: `{"topics": ["Temat A", "Temat B", "Temat C"]}`}
	suggester := NewSuggesterWithPick(gen, "m", func(n int) int {
		require.Equal(t, 3, n)
		return 1
	})

	got, err := suggester.Suggest(context.Background(), promptedSite())
	require.NoError(t, err)

	assert.Equal(t, "Temat B", got.Title)
	assert.Equal(t, "AI Generated", got.SourceName)
	assert.Empty(t, got.URL)
	assert.False(t, got.HasImage())
}

func TestSuggestToleratesProseAroundJSON(t *testing.T) {
	gen := &stubGenerator{response: "Oto propozycje:\n{\"topics\": [\"Temat A\"]}\nMiłego dnia!"}
	suggester := NewSuggesterWithPick(gen, "m", func(int) int { return 0 })

	got, err := suggester.Suggest(context.Background(), promptedSite())
	require.NoError(t, err)
	assert.Equal(t, "Temat A", got.Title)
}

func TestSuggestErrors(t *testing.T) {
	tests := []struct {
		name    string
		gen     *stubGenerator
		site    config.SiteProfile
		wantErr string
	}{
		{
			name:    "no topic prompt",
			gen:     &stubGenerator{},
			site:    config.SiteProfile{ID: "bare"},
			wantErr: "no topic prompt",
		},
		{
			name:    "model call fails",
			gen:     &stubGenerator{err: errors.New("down")},
			site:    promptedSite(),
			wantErr: "suggestion call failed",
		},
		{
			name:    "no json in answer",
			gen:     &stubGenerator{response: "just prose"},
			site:    promptedSite(),
			wantErr: "no JSON object",
		},
		{
			name:    "empty topic list",
			gen:     &stubGenerator{response: `{"topics": []}`},
			site:    promptedSite(),
			wantErr: "no topics",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suggester := NewSuggesterWithPick(tt.gen, "m", func(int) int { return 0 })
			_, err := suggester.Suggest(context.Background(), tt.site)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
