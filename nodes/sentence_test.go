package nodes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitter_BasicSplit(t *testing.T) {
	splitter, err := NewSplitter()
	require.NoError(t, err)

	out := splitter.Split("The policy covers ICU stays. Limits apply per year.")
	require.Len(t, out, 2)
	assert.Equal(t, "The policy covers ICU stays.", out[0])
	assert.Equal(t, "Limits apply per year.", out[1])
}

func TestSplitter_DecimalsDoNotSplit(t *testing.T) {
	splitter, err := NewSplitter()
	require.NoError(t, err)

	out := splitter.Split("The daily rate is $1.50 per bed day. Claims close quarterly.")
	assert.Len(t, out, 2)
}

func TestSplitter_EmptyAndWhitespace(t *testing.T) {
	splitter, err := NewSplitter()
	require.NoError(t, err)

	assert.Empty(t, splitter.Split(""))
	assert.Empty(t, splitter.Split("   \n\t  "))
}

func TestSplitter_SingleSentence(t *testing.T) {
	splitter, err := NewSplitter()
	require.NoError(t, err)

	out := splitter.Split("Ward charges apply.")
	require.Len(t, out, 1)
	assert.Equal(t, "Ward charges apply.", out[0])
}

func TestSplitter_Restartable(t *testing.T) {
	splitter, err := NewSplitter()
	require.NoError(t, err)

	text := "One here. Two here. Three here."
	first := splitter.Split(text)
	second := splitter.Split(text)
	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
}
