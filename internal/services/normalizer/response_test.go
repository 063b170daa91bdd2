package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/vendo/internal/common"
	"github.com/ternarybob/vendo/internal/models"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  \n```json\n{\"a\":1}\n```\n  ", `{"a":1}`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripCodeFences(tt.input))
		})
	}
}

func TestDecodeResponseInvalidJSON(t *testing.T) {
	var outline models.Outline
	err := DecodeResponse("Sure! Here is the outline you asked for.", &outline)
	require.Error(t, err)

	var ve *common.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Sure! Here is the outline you asked for.", ve.Raw)
	assert.Error(t, ve.Err)
}

func TestDecodeResponseEmptyAfterStripping(t *testing.T) {
	var outline models.Outline
	err := DecodeResponse("```\n```", &outline)
	require.Error(t, err)
	assert.True(t, common.IsValidation(err))
}

func TestDecodeResponseValid(t *testing.T) {
	var outline models.Outline
	err := DecodeResponse("```json\n{\"sections\":[{\"title\":\"A\"}]}\n```", &outline)
	require.NoError(t, err)
	require.Len(t, outline.Sections, 1)
	assert.Equal(t, "A", outline.Sections[0].Title)
}
