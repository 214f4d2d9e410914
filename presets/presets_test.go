package presets_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-ramdisk/ramdisk/image"
	"github.com/go-ramdisk/ramdisk/presets"
)

func TestGet__StandardMatchesCompiledInLayout(t *testing.T) {
	p, err := presets.Get("standard")
	require.NoError(t, err)
	assert.EqualValues(t, image.TotalBlocks, p.TotalBlocks)
	assert.EqualValues(t, image.InodeCount, p.InodeCount)
	assert.EqualValues(t, image.BlockSize, p.BlockSize)
}

func TestGet__UnknownSlug(t *testing.T) {
	_, err := presets.Get("does-not-exist")
	assert.Error(t, err)
}

func TestAll__IncludesEveryRegisteredPreset(t *testing.T) {
	all := presets.All()
	assert.GreaterOrEqual(t, len(all), 3)
}
