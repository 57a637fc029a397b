package profiles_test

import (
	"testing"

	"github.com/jpaulsen/simplefs/profiles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupKnownProfile(t *testing.T) {
	p, err := profiles.Lookup("floppy-1440")
	require.NoError(t, err)
	assert.EqualValues(t, 1440, p.Blocks)
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	p, err := profiles.Lookup("FLOPPY-1440")
	require.NoError(t, err)
	assert.Equal(t, "floppy-1440", p.Name)
}

func TestLookupUnknownProfile(t *testing.T) {
	_, err := profiles.Lookup("does-not-exist")
	assert.Error(t, err)
}

func TestKnownIsSortedByBlocks(t *testing.T) {
	all := profiles.Known()
	require.NotEmpty(t, all)
	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, all[i-1].Blocks, all[i].Blocks)
	}
}
