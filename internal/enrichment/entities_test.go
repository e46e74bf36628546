package enrichment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntitiesAreDistinct(t *testing.T) {
	tagger := NewTagger()

	entities, err := tagger.Entities("John Smith transferred funds from Acme Corporation " +
		"accounts in Chicago. John Smith approved the transfer himself.")
	require.NoError(t, err)

	seen := make(map[string]struct{})
	for _, e := range entities {
		_, dup := seen[e]
		assert.False(t, dup, "entity %q listed twice", e)
		seen[e] = struct{}{}
	}
}

func TestEntitiesOnPlainText(t *testing.T) {
	tagger := NewTagger()

	_, err := tagger.Entities("the ledger counts do not match the deliveries")
	require.NoError(t, err)
}

func TestEntitiesAreDeterministic(t *testing.T) {
	tagger := NewTagger()

	text := "Maria Lopez moved the files to the Westside office."
	first, err := tagger.Entities(text)
	require.NoError(t, err)
	second, err := tagger.Entities(text)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
