// Package blocklist is the block-address translation layer: given an inode
// and a logical block index, it finds (or allocates) the physical block
// that holds that data, walking direct, single-indirect, and
// double-indirect pointers as needed, allocating new indirection blocks
// lazily as the inode grows past each threshold.
//
// Grounded on drivers/common/clusterio.go's ClusterStream (translating a
// logical index to a physical address with bounds checking) and
// drivers/unixv1/inode.go's raw block-pointer arrays, generalized from one
// level of indirection to two.
package blocklist

import (
	"github.com/go-ramdisk/ramdisk/bitmap"
	"github.com/go-ramdisk/ramdisk/errs"
	"github.com/go-ramdisk/ramdisk/image"
)

const (
	directCount       = image.DirectPointers
	singleIndirectEnd = directCount + image.PointersPerBlock
	doubleIndirectEnd = singleIndirectEnd + image.PointersPerBlock*image.PointersPerBlock
)

// BlockAt returns the physical block number holding logical block index i of
// inode, walking direct, single-indirect, and double-indirect pointers as
// needed. ok is false if i is beyond the inode's allocated range (a NoBlock
// sentinel was hit at some level, or i exceeds the format's addressable
// range entirely).
func BlockAt(img *image.Image, inode image.Inode, i int) (block int32, ok bool) {
	switch {
	case i < directCount:
		v := inode.Direct[i]
		return v, v != image.NoBlock

	case i < singleIndirectEnd:
		if inode.SingleInd == image.NoBlock {
			return 0, false
		}
		pointers := image.DecodeBlockPointers(img.BlockBytes(inode.SingleInd))
		v := pointers[i-directCount]
		return v, v != image.NoBlock

	case i < doubleIndirectEnd:
		if inode.DoubleInd == image.NoBlock {
			return 0, false
		}
		topLevel := image.DecodeBlockPointers(img.BlockBytes(inode.DoubleInd))
		idx := i - singleIndirectEnd
		secondLevelBlock := topLevel[idx/image.PointersPerBlock]
		if secondLevelBlock == image.NoBlock {
			return 0, false
		}
		secondLevel := image.DecodeBlockPointers(img.BlockBytes(secondLevelBlock))
		v := secondLevel[idx%image.PointersPerBlock]
		return v, v != image.NoBlock

	default:
		return 0, false
	}
}

// BlocksOf enumerates every allocated data block of inode in logical order,
// stopping at the first unallocated (NoBlock) slot encountered at any
// level. Unlike the reference C implementation's fixed 4168-slot array with
// a -1 terminator, this returns a plain slice sized to what's actually
// allocated - the terminator was a C array-capacity artifact, not part of
// the spec's observable format.
func BlocksOf(img *image.Image, inode image.Inode) []int32 {
	blocks := make([]int32, 0, image.MaxBlocksPerFile)
	for i := 0; i < image.MaxBlocksPerFile; i++ {
		block, ok := BlockAt(img, inode, i)
		if !ok {
			break
		}
		blocks = append(blocks, block)
	}
	return blocks
}

// indirectionBlocksNeeded returns the total number of indirection blocks
// (single, double, and second-level combined) required to address n data
// blocks under the fill-direct-then-single-then-double policy.
func indirectionBlocksNeeded(n int) int {
	if n <= directCount {
		return 0
	}
	if n <= singleIndirectEnd {
		return 1 // the single-indirect block itself
	}
	remaining := n - singleIndirectEnd
	secondLevelBlocks := (remaining + image.PointersPerBlock - 1) / image.PointersPerBlock
	return 1 /* single */ + 1 /* double */ + secondLevelBlocks
}

// blankIndirectBlock returns a freshly allocated indirection block's
// contents: every slot set to NoBlock, matching the policy that indirect
// blocks are zero-filled by the allocator and then explicitly stamped with
// sentinels before any data is written, so readers always terminate
// correctly.
func blankIndirectBlock() []byte {
	return image.EncodeBlockPointers(nil)
}

// attach writes physical block into logical position pos of inode,
// allocating (and sentinel-initializing) whatever single/double-indirect or
// second-level container is needed to reach that position, for the first
// time it's needed.
func attach(img *image.Image, alloc bitmap.Allocator, inode *image.Inode, pos int, block int32) {
	switch {
	case pos < directCount:
		inode.Direct[pos] = block

	case pos < singleIndirectEnd:
		if inode.SingleInd == image.NoBlock {
			singleInd, _ := alloc.AllocBlock()
			copy(img.BlockBytes(singleInd), blankIndirectBlock())
			inode.SingleInd = singleInd
		}
		pointers := image.DecodeBlockPointers(img.BlockBytes(inode.SingleInd))
		pointers[pos-directCount] = block
		copy(img.BlockBytes(inode.SingleInd), image.EncodeBlockPointers(pointers[:]))

	default:
		if inode.DoubleInd == image.NoBlock {
			doubleInd, _ := alloc.AllocBlock()
			copy(img.BlockBytes(doubleInd), blankIndirectBlock())
			inode.DoubleInd = doubleInd
		}
		topLevel := image.DecodeBlockPointers(img.BlockBytes(inode.DoubleInd))
		idx := pos - singleIndirectEnd
		secPos := idx / image.PointersPerBlock
		within := idx % image.PointersPerBlock

		secondLevelBlock := topLevel[secPos]
		if secondLevelBlock == image.NoBlock {
			secondLevelBlock, _ = alloc.AllocBlock()
			copy(img.BlockBytes(secondLevelBlock), blankIndirectBlock())
			topLevel[secPos] = secondLevelBlock
			copy(img.BlockBytes(inode.DoubleInd), image.EncodeBlockPointers(topLevel[:]))
		}

		secondLevel := image.DecodeBlockPointers(img.BlockBytes(secondLevelBlock))
		secondLevel[within] = block
		copy(img.BlockBytes(secondLevelBlock), image.EncodeBlockPointers(secondLevel[:]))
	}
}

// Grow appends `additional` data blocks onto whatever inodeNo currently has
// allocated, lazily allocating single/double-indirect containers as each
// threshold is crossed. The full budget - new data blocks plus any new
// indirection blocks - is checked against the superblock's free-block count
// before anything is allocated, so a failing call leaves the image
// unchanged.
func Grow(img *image.Image, alloc bitmap.Allocator, inodeNo int, additional int) error {
	inode := img.Inode(inodeNo)
	current := len(BlocksOf(img, inode))
	target := current + additional

	if target > image.MaxBlocksPerFile {
		return errs.TooLarge
	}

	extraIndirection := indirectionBlocksNeeded(target) - indirectionBlocksNeeded(current)
	totalNewBlocks := additional + extraIndirection
	if uint32(totalNewBlocks) > alloc.FreeBlocks() {
		return errs.NoSpace
	}

	for pos := current; pos < target; pos++ {
		block, _ := alloc.AllocBlock()
		attach(img, alloc, &inode, pos, block)
	}

	img.PutInode(inodeNo, inode)
	return nil
}

// Reserve allocates exactly n data blocks (plus minimum indirection blocks)
// for a freshly allocated inode whose pointer fields are all NoBlock - the
// state inodetab.AllocInode leaves a slot in. It is Grow starting from
// zero.
func Reserve(img *image.Image, alloc bitmap.Allocator, inodeNo int, n int) error {
	return Grow(img, alloc, inodeNo, n)
}

// Release frees every data block and every indirection block (single,
// double, and each second-level block under the double-indirect) owned by
// inodeNo, then resets its pointer fields to NoBlock. It does not clear the
// inode's type/name/size fields; callers that are unlinking the inode
// entirely should follow up with inodetab.FreeInode.
func Release(img *image.Image, alloc bitmap.Allocator, inodeNo int) {
	inode := img.Inode(inodeNo)

	for _, block := range BlocksOf(img, inode) {
		alloc.FreeBlock(block)
	}

	if inode.SingleInd != image.NoBlock {
		alloc.FreeBlock(inode.SingleInd)
	}

	if inode.DoubleInd != image.NoBlock {
		topLevel := image.DecodeBlockPointers(img.BlockBytes(inode.DoubleInd))
		for _, secondLevelBlock := range topLevel {
			if secondLevelBlock != image.NoBlock {
				alloc.FreeBlock(secondLevelBlock)
			}
		}
		alloc.FreeBlock(inode.DoubleInd)
	}

	for i := range inode.Direct {
		inode.Direct[i] = image.NoBlock
	}
	inode.SingleInd = image.NoBlock
	inode.DoubleInd = image.NoBlock
	img.PutInode(inodeNo, inode)
}
