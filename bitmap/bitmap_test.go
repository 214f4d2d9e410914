package bitmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-ramdisk/ramdisk/bitmap"
	"github.com/go-ramdisk/ramdisk/errs"
	"github.com/go-ramdisk/ramdisk/image"
)

func TestAllocBlock__MSBFirstOrder(t *testing.T) {
	img := image.New()
	alloc := bitmap.New(img)

	first, err := alloc.AllocBlock()
	require.NoError(t, err)
	assert.EqualValues(t, 0, first, "first allocated block should be block 0 (byte 0, MSB)")

	second, err := alloc.AllocBlock()
	require.NoError(t, err)
	assert.EqualValues(t, 1, second, "second allocated block should be block 1")

	assert.True(t, alloc.Get(0))
	assert.True(t, alloc.Get(1))
	assert.False(t, alloc.Get(2))
}

func TestAllocBlock__DecrementsFreeCount(t *testing.T) {
	img := image.New()
	alloc := bitmap.New(img)

	before := alloc.FreeBlocks()
	_, err := alloc.AllocBlock()
	require.NoError(t, err)
	assert.EqualValues(t, before-1, alloc.FreeBlocks())
}

func TestAllocBlock__ZeroFillsReturnedBlock(t *testing.T) {
	img := image.New()
	alloc := bitmap.New(img)

	block, err := alloc.AllocBlock()
	require.NoError(t, err)

	data := img.BlockBytes(block)
	copy(data, []byte{1, 2, 3, 4})

	alloc.FreeBlock(block)
	reallocated, err := alloc.AllocBlock()
	require.NoError(t, err)
	require.Equal(t, block, reallocated, "first-fit should reuse the freed block")

	for _, b := range img.BlockBytes(reallocated) {
		assert.Zero(t, b)
	}
}

func TestAllocBlock__NoSpace(t *testing.T) {
	img := image.New()
	alloc := bitmap.New(img)

	for i := 0; i < image.TotalBlocks; i++ {
		_, err := alloc.AllocBlock()
		require.NoError(t, err)
	}

	_, err := alloc.AllocBlock()
	assert.Equal(t, errs.NoSpace, err)
	assert.EqualValues(t, 0, alloc.FreeBlocks())
}

func TestFreeBlock__IncrementsFreeCountAndClearsBit(t *testing.T) {
	img := image.New()
	alloc := bitmap.New(img)

	block, err := alloc.AllocBlock()
	require.NoError(t, err)

	before := alloc.FreeBlocks()
	alloc.FreeBlock(block)
	assert.EqualValues(t, before+1, alloc.FreeBlocks())
	assert.False(t, alloc.Get(block))
}
