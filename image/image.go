package image

import (
	"encoding/binary"
	"io"

	"github.com/xaionaro-go/bytesextra"
)

// Image is the single owning buffer for a ramdisk: superblock, inode table,
// block bitmap, and data blocks all live inside Bytes. Every other package
// in this module reaches the image through the accessors below rather than
// holding its own copy of any region.
type Image struct {
	Bytes []byte
}

// New creates a freshly formatted image: zeroed throughout, superblock
// counters set to "everything free", and inode 0 initialized as the root
// directory.
func New() *Image {
	img := &Image{Bytes: make([]byte, Size)}
	img.PutSuperblock(Superblock{FreeBlocks: TotalBlocks, FreeInodes: InodeCount})

	root := FreeInode()
	root.Type = TypeDir
	root.Name = "/"
	img.PutInode(RootInode, root)
	// Allocating the root slot above did not go through AllocInode, so
	// account for it here: one inode (root) is no longer free.
	sb := img.Superblock()
	sb.FreeInodes--
	img.PutSuperblock(sb)
	return img
}

// Superblock reads the current free-block/free-inode counters.
func (img *Image) Superblock() Superblock {
	buf := img.Bytes[SuperblockOffset : SuperblockOffset+SuperblockSize]
	return Superblock{
		FreeBlocks: binary.LittleEndian.Uint32(buf[0:4]),
		FreeInodes: binary.LittleEndian.Uint32(buf[4:8]),
	}
}

// PutSuperblock writes new free-block/free-inode counters.
func (img *Image) PutSuperblock(sb Superblock) {
	buf := img.Bytes[SuperblockOffset : SuperblockOffset+SuperblockSize]
	binary.LittleEndian.PutUint32(buf[0:4], sb.FreeBlocks)
	binary.LittleEndian.PutUint32(buf[4:8], sb.FreeInodes)
}

// InodeSlot returns the raw InodeSize-byte slice backing the given inode
// number. The returned slice aliases the image: writes through it are
// visible immediately.
func (img *Image) InodeSlot(inodeNo int) []byte {
	start := InodeTableOffset + inodeNo*InodeSize
	return img.Bytes[start : start+InodeSize]
}

// Inode decodes the inode at the given slot.
func (img *Image) Inode(inodeNo int) Inode {
	return DecodeInode(img.InodeSlot(inodeNo))
}

// PutInode encodes and writes an inode into its slot.
func (img *Image) PutInode(inodeNo int, n Inode) {
	copy(img.InodeSlot(inodeNo), EncodeInode(n))
}

// BitmapRegion returns the raw bitmap bytes, aliasing the image.
func (img *Image) BitmapRegion() []byte {
	return img.Bytes[BitmapOffset : BitmapOffset+BitmapBytes]
}

// BlockBytes returns the raw BlockSize-byte slice backing the given block
// number, aliasing the image.
func (img *Image) BlockBytes(blockNo int32) []byte {
	start := DataBlocksOffset + int(blockNo)*BlockSize
	return img.Bytes[start : start+BlockSize]
}

// Stream wraps the whole image as an io.ReadWriteSeeker, for operations that
// want to copy bytes between a block and a caller-supplied buffer using
// ordinary Read/Write/Seek calls instead of manual slicing.
func (img *Image) Stream() io.ReadWriteSeeker {
	return bytesextra.NewReadWriteSeeker(img.Bytes)
}

// BlockOffset returns the byte offset of the given block number within the
// image, for use with Stream's Seek.
func BlockOffset(blockNo int32) int64 {
	return int64(DataBlocksOffset) + int64(blockNo)*int64(BlockSize)
}
