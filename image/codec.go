package image

import (
	"bytes"
	"encoding/binary"

	"github.com/noxer/bytewriter"
)

// Superblock mirrors the two little-endian counters at offset 0 of the
// image: the number of free data blocks and the number of free inode slots.
type Superblock struct {
	FreeBlocks uint32
	FreeInodes uint32
}

// Inode is the decoded, in-memory form of one 64-byte inode table slot.
// Unused pointer fields hold NoBlock.
type Inode struct {
	Type       string
	Size       uint32
	FileCount  uint16
	Name       string
	Direct     [DirectPointers]int32
	SingleInd  int32
	DoubleInd  int32
}

// IsFree reports whether this inode slot is unallocated.
func (n Inode) IsFree() bool {
	return n.Type == TypeFree
}

// Dirent is the decoded form of one 16-byte directory entry.
type Dirent struct {
	Name  string
	Inode int32
}

// IsFree reports whether this directory entry slot is unoccupied. Per spec,
// an inode number <= 0 marks a free slot (inode 0 is root and can never be a
// child entry).
func (d Dirent) IsFree() bool {
	return d.Inode <= 0
}

func encodeFixedString(dst []byte, s string) {
	for i := range dst {
		dst[i] = 0
	}
	copy(dst, s)
}

func decodeFixedString(src []byte) string {
	n := bytes.IndexByte(src, 0)
	if n < 0 {
		n = len(src)
	}
	return string(src[:n])
}

// EncodeInode serializes inode into a fresh InodeSize-byte slot.
func EncodeInode(n Inode) []byte {
	buf := make([]byte, InodeSize)
	encodeFixedString(buf[InodeFieldType:InodeFieldType+InodeFieldTypeSize], n.Type)
	binary.LittleEndian.PutUint32(buf[InodeFieldSize:], n.Size)
	binary.LittleEndian.PutUint16(buf[InodeFieldFileCount:], n.FileCount)
	encodeFixedString(buf[InodeFieldName:InodeFieldName+InodeFieldNameSize], n.Name)

	w := bytewriter.New(buf[InodeFieldDirect:InodeFieldSingleInd])
	for _, block := range n.Direct {
		binary.Write(w, binary.LittleEndian, block)
	}
	binary.LittleEndian.PutUint32(buf[InodeFieldSingleInd:], uint32(n.SingleInd))
	binary.LittleEndian.PutUint32(buf[InodeFieldDoubleInd:], uint32(n.DoubleInd))
	return buf
}

// DecodeInode parses a single InodeSize-byte slot read from the image.
func DecodeInode(buf []byte) Inode {
	var n Inode
	n.Type = decodeFixedString(buf[InodeFieldType : InodeFieldType+InodeFieldTypeSize])
	n.Size = binary.LittleEndian.Uint32(buf[InodeFieldSize:])
	n.FileCount = binary.LittleEndian.Uint16(buf[InodeFieldFileCount:])
	n.Name = decodeFixedString(buf[InodeFieldName : InodeFieldName+InodeFieldNameSize])

	r := bytes.NewReader(buf[InodeFieldDirect:InodeFieldSingleInd])
	for i := range n.Direct {
		binary.Read(r, binary.LittleEndian, &n.Direct[i])
	}
	n.SingleInd = int32(binary.LittleEndian.Uint32(buf[InodeFieldSingleInd:]))
	n.DoubleInd = int32(binary.LittleEndian.Uint32(buf[InodeFieldDoubleInd:]))
	return n
}

// FreeInode is an empty-typed inode with every block pointer set to NoBlock:
// the state AllocInode leaves a reserved slot in. A freed slot is written as
// the all-zero Inode{} instead (see inodetab.FreeInode).
func FreeInode() Inode {
	n := Inode{Type: TypeFree}
	for i := range n.Direct {
		n.Direct[i] = NoBlock
	}
	n.SingleInd = NoBlock
	n.DoubleInd = NoBlock
	return n
}

// EncodeDirent serializes a directory entry into a fresh DirentSize-byte
// record.
func EncodeDirent(d Dirent) []byte {
	buf := make([]byte, DirentSize)
	encodeFixedString(buf[DirentFieldName:DirentFieldName+DirentFieldNameSize], d.Name)
	w := bytewriter.New(buf[DirentFieldInode:])
	binary.Write(w, binary.LittleEndian, uint16(d.Inode))
	return buf
}

// DecodeDirent parses a single DirentSize-byte record.
func DecodeDirent(buf []byte) Dirent {
	return Dirent{
		Name:  decodeFixedString(buf[DirentFieldName : DirentFieldName+DirentFieldNameSize]),
		Inode: int32(binary.LittleEndian.Uint16(buf[DirentFieldInode:])),
	}
}

// EncodeBlockPointers serializes block numbers into an indirect block. Any
// slots beyond len(pointers) are filled with NoBlock so readers terminate
// the scan correctly.
func EncodeBlockPointers(pointers []int32) []byte {
	buf := make([]byte, BlockSize)
	w := bytewriter.New(buf)
	for i := 0; i < PointersPerBlock; i++ {
		value := NoBlock
		if i < len(pointers) {
			value = pointers[i]
		}
		binary.Write(w, binary.LittleEndian, value)
	}
	return buf
}

// DecodeBlockPointers parses an indirect block into PointersPerBlock block
// numbers.
func DecodeBlockPointers(buf []byte) [PointersPerBlock]int32 {
	var out [PointersPerBlock]int32
	r := bytes.NewReader(buf)
	for i := range out {
		binary.Read(r, binary.LittleEndian, &out[i])
	}
	return out
}
