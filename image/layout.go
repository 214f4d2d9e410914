// Package image owns the single contiguous byte buffer backing a ramdisk:
// the superblock, inode table, block bitmap, and data blocks all live in one
// []byte, and every other package in this module reaches the image only
// through the typed accessors here. No package outside image reinterprets
// raw offsets directly.
package image

const (
	// BlockSize is the size in bytes of one data block. A block may hold raw
	// file bytes, 64 indirect block numbers, or 16 directory entries.
	BlockSize = 256
	// InodeSize is the size in bytes of one inode table slot.
	InodeSize = 64
	// InodeCount is the number of slots in the inode table. Slot 0 is always
	// the root directory.
	InodeCount = 1024
	// TotalBlocks is the number of data blocks in the pool shared by file
	// data, directory listings, and indirect pointer blocks.
	TotalBlocks = 8000
	// BitmapBytes is the size of the block bitmap, one bit per data block.
	BitmapBytes = TotalBlocks / 8

	// DirectPointers is the number of direct block pointers in an inode.
	DirectPointers = 8
	// PointersPerBlock is how many 4-byte block numbers fit in one indirect
	// block.
	PointersPerBlock = BlockSize / 4
	// DirentsPerBlock is how many 16-byte directory entries fit in one block.
	DirentsPerBlock = BlockSize / DirentSize

	// MaxNameLength is the longest name (excluding the NUL terminator) that
	// fits in a directory entry or an inode's name field.
	MaxNameLength = 13

	// MaxBlocksPerFile is the largest number of logical data blocks a single
	// inode can address: 8 direct + 64 single-indirect + 64*64 double-indirect.
	MaxBlocksPerFile = DirectPointers + PointersPerBlock + PointersPerBlock*PointersPerBlock
	// MaxFileSize is the largest file size obtainable from MaxBlocksPerFile.
	MaxFileSize = MaxBlocksPerFile * BlockSize
)

// Region offsets, in bytes, from the start of the image.
const (
	SuperblockOffset = 0
	SuperblockSize   = 8

	InodeTableOffset = SuperblockOffset + SuperblockSize
	InodeTableSize   = InodeCount * InodeSize

	BitmapOffset = InodeTableOffset + InodeTableSize

	DataBlocksOffset = BitmapOffset + BitmapBytes
	DataBlocksSize   = TotalBlocks * BlockSize

	// Size is the total size of the image, in bytes: the four regions laid
	// out back to back with no gaps. ~2 MiB for the reference configuration
	// above.
	Size = DataBlocksOffset + DataBlocksSize
)

// Inode record field offsets, within a single InodeSize-byte slot.
const (
	InodeFieldType       = 0
	InodeFieldTypeSize   = 4
	InodeFieldSize       = 4
	InodeFieldFileCount  = 8
	InodeFieldName       = 10
	InodeFieldNameSize   = 14
	InodeFieldDirect     = 24
	InodeFieldSingleInd  = 56
	InodeFieldDoubleInd  = 60
)

// Directory entry field offsets, within a single DirentSize-byte record.
const (
	DirentFieldName     = 0
	DirentFieldNameSize = 14
	DirentFieldInode    = 14
	DirentSize          = 16
)

// RootInode is the reserved inode number of the root directory.
const RootInode = 0

// NoBlock is the on-image sentinel meaning "this pointer slot is unused".
// It is part of the format and must be preserved exactly.
const NoBlock int32 = -1

// Inode type tags. A slot whose type is the empty string is free.
const (
	TypeFree = ""
	TypeDir  = "dir"
	TypeReg  = "reg"
)
