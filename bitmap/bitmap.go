// Package bitmap implements the free-block allocator: a linear first-fit
// scan over the image's block bitmap region, with the bit order pinned by
// the on-image format (MSB is bit 7 within each byte) rather than left to
// whatever an external bitmap library happens to use internally.
//
// Grounded on drivers/common/allocatormap.go's Allocator (AllocateBlock /
// FreeBlock / first-fit linear scan), adapted to operate directly on a slice
// aliasing the image's bitmap region instead of an independently-owned
// bitmap.Bitmap, since the bitmap's bit layout is part of the byte-exact
// on-image format.
package bitmap

import (
	"github.com/go-ramdisk/ramdisk/errs"
	"github.com/go-ramdisk/ramdisk/image"
)

// Allocator manages the free-block bitmap and the superblock's free-block
// counter for one image.
type Allocator struct {
	img *image.Image
}

// New returns an allocator bound to img's bitmap region.
func New(img *image.Image) Allocator {
	return Allocator{img: img}
}

func blockLocation(blockNo int32) (byteIndex int, bit uint) {
	return int(blockNo) / 8, 7 - uint(blockNo)%8
}

// Get reports whether the given block is currently allocated.
func (a Allocator) Get(blockNo int32) bool {
	byteIndex, bit := blockLocation(blockNo)
	return a.img.BitmapRegion()[byteIndex]&(1<<bit) != 0
}

func (a Allocator) set(blockNo int32, value bool) {
	byteIndex, bit := blockLocation(blockNo)
	region := a.img.BitmapRegion()
	if value {
		region[byteIndex] |= 1 << bit
	} else {
		region[byteIndex] &^= 1 << bit
	}
}

// FreeBlocks returns the current free-block count from the superblock.
func (a Allocator) FreeBlocks() uint32 {
	return a.img.Superblock().FreeBlocks
}

// AllocBlock scans the bitmap MSB-first within each byte, starting at byte
// 0, for the first clear bit. It sets that bit, decrements the superblock's
// free-block count, zero-fills the block's data bytes, and returns the
// block number. Returns errs.NoSpace if every block is allocated.
func (a Allocator) AllocBlock() (int32, error) {
	region := a.img.BitmapRegion()
	for byteIndex, b := range region {
		if b == 0xFF {
			continue
		}
		for bit := 7; bit >= 0; bit-- {
			if b&(1<<uint(bit)) == 0 {
				blockNo := int32(byteIndex*8) + int32(7-bit)
				a.set(blockNo, true)

				sb := a.img.Superblock()
				sb.FreeBlocks--
				a.img.PutSuperblock(sb)

				data := a.img.BlockBytes(blockNo)
				for i := range data {
					data[i] = 0
				}
				return blockNo, nil
			}
		}
	}
	return 0, errs.NoSpace
}

// FreeBlock clears the bitmap bit for blockNo and increments the
// superblock's free-block count. Calling FreeBlock on an already-free block
// is a programming error and is not guarded against, matching the spec's
// allocator contract.
func (a Allocator) FreeBlock(blockNo int32) {
	a.set(blockNo, false)
	sb := a.img.Superblock()
	sb.FreeBlocks++
	a.img.PutSuperblock(sb)
}
