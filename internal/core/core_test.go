package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStagePoliciesCoverEveryStage(t *testing.T) {
	stages := []Stage{
		StageTopic, StageResearch, StageOutline, StageDraft,
		StageTitle, StageSanitize, StageTaxonomy, StageMedia, StagePublish,
	}

	require.Len(t, StagePolicies, len(stages))
	for _, stage := range stages {
		_, ok := StagePolicies[stage]
		assert.True(t, ok, "stage %s has no policy", stage)
	}
}

func TestStagePolicyClassification(t *testing.T) {
	assert.Equal(t, Fatal, StagePolicies[StageResearch])
	assert.Equal(t, Fatal, StagePolicies[StagePublish])
	assert.Equal(t, BestEffort, StagePolicies[StageTitle])
	assert.Equal(t, BestEffort, StagePolicies[StageTaxonomy])
	assert.Equal(t, BestEffort, StagePolicies[StageMedia])
}

func TestTopicCandidateHasImage(t *testing.T) {
	assert.False(t, TopicCandidate{Title: "t"}.HasImage())
	assert.True(t, TopicCandidate{ImageURL: "https://img.example/a.jpg"}.HasImage())
	assert.True(t, TopicCandidate{ImageData: []byte{1}}.HasImage())
}

func TestPublishPayloadOmitsZeroOptionalFields(t *testing.T) {
	payload := PublishPayload{
		Title:      "T",
		Content:    "<p>c</p>",
		Status:     "publish",
		Categories: []int{7},
		Tags:       []int{},
	}

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	_, hasMedia := raw["featured_media"]
	assert.False(t, hasMedia)
	_, hasAuthor := raw["author"]
	assert.False(t, hasAuthor)
}

func TestPublishPayloadCarriesOptionalFields(t *testing.T) {
	payload := PublishPayload{Title: "T", FeaturedMedia: 501, Author: 3}

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, float64(501), raw["featured_media"])
	assert.Equal(t, float64(3), raw["author"])
}
