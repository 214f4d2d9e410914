// Package directory interprets a directory inode's data blocks as arrays of
// fixed-size entries and implements lookup/insert/remove by name.
//
// Grounded on drivers/unixv1/dirents.go's RawDirent/buildDirentFromBytes
// (a directory entry is a small fixed record decoded on demand from a raw
// block), generalized to scan whole blocks of entries and to grow into
// indirect ranges via blocklist.Grow.
package directory

import (
	"github.com/go-ramdisk/ramdisk/bitmap"
	"github.com/go-ramdisk/ramdisk/blocklist"
	"github.com/go-ramdisk/ramdisk/errs"
	"github.com/go-ramdisk/ramdisk/image"
)

// Directory provides entry lookup/insert/remove for directory inodes of one
// image.
type Directory struct {
	img   *image.Image
	alloc bitmap.Allocator
}

// New returns a directory layer bound to img and its block allocator.
func New(img *image.Image, alloc bitmap.Allocator) Directory {
	return Directory{img: img, alloc: alloc}
}

func direntSlice(blockBytes []byte, slot int) []byte {
	return blockBytes[slot*image.DirentSize : (slot+1)*image.DirentSize]
}

// Lookup returns the inode number of the entry named `name` within
// dirInodeNo. Scanning stops after examining FileCount live entries or
// exhausting the directory's data blocks.
func (d Directory) Lookup(dirInodeNo int, name string) (int32, error) {
	inode := d.img.Inode(dirInodeNo)
	if inode.Type != image.TypeDir {
		return 0, errs.NotADir
	}

	examined := uint16(0)
	for _, blockNo := range blocklist.BlocksOf(d.img, inode) {
		blockBytes := d.img.BlockBytes(blockNo)
		for slot := 0; slot < image.DirentsPerBlock; slot++ {
			entry := image.DecodeDirent(direntSlice(blockBytes, slot))
			if entry.IsFree() {
				continue
			}
			if entry.Name == name {
				return entry.Inode, nil
			}
			examined++
			if examined >= inode.FileCount {
				return 0, errs.NotFound
			}
		}
	}
	return 0, errs.NotFound
}

// Insert adds a new entry mapping name to childInodeNo within dirInodeNo.
// It places the entry in the first free slot of an existing data block; if
// none has room, it grows the directory by one block (possibly into the
// single/double-indirect range) and uses that block's first slot.
func (d Directory) Insert(dirInodeNo int, name string, childInodeNo int32) error {
	inode := d.img.Inode(dirInodeNo)
	if inode.Type != image.TypeDir {
		return errs.NotADir
	}
	if _, err := d.Lookup(dirInodeNo, name); err == nil {
		return errs.Exists
	}

	for _, blockNo := range blocklist.BlocksOf(d.img, inode) {
		blockBytes := d.img.BlockBytes(blockNo)
		for slot := 0; slot < image.DirentsPerBlock; slot++ {
			entrySlice := direntSlice(blockBytes, slot)
			if image.DecodeDirent(entrySlice).IsFree() {
				copy(entrySlice, image.EncodeDirent(image.Dirent{Name: name, Inode: childInodeNo}))
				inode.FileCount++
				d.img.PutInode(dirInodeNo, inode)
				return nil
			}
		}
	}

	if err := blocklist.Grow(d.img, d.alloc, dirInodeNo, 1); err != nil {
		return err
	}

	inode = d.img.Inode(dirInodeNo)
	blocks := blocklist.BlocksOf(d.img, inode)
	newBlock := d.img.BlockBytes(blocks[len(blocks)-1])
	copy(direntSlice(newBlock, 0), image.EncodeDirent(image.Dirent{Name: name, Inode: childInodeNo}))
	inode.FileCount++
	d.img.PutInode(dirInodeNo, inode)
	return nil
}

// Remove zeroes the entry named `name` in place and decrements FileCount.
// The freed slot is reused by a later Insert; no compaction is performed.
func (d Directory) Remove(dirInodeNo int, name string) error {
	inode := d.img.Inode(dirInodeNo)
	if inode.Type != image.TypeDir {
		return errs.NotADir
	}

	for _, blockNo := range blocklist.BlocksOf(d.img, inode) {
		blockBytes := d.img.BlockBytes(blockNo)
		for slot := 0; slot < image.DirentsPerBlock; slot++ {
			entrySlice := direntSlice(blockBytes, slot)
			entry := image.DecodeDirent(entrySlice)
			if entry.IsFree() || entry.Name != name {
				continue
			}
			for i := range entrySlice {
				entrySlice[i] = 0
			}
			inode.FileCount--
			d.img.PutInode(dirInodeNo, inode)
			return nil
		}
	}
	return errs.NotFound
}

// List returns every live entry in dirInodeNo, in on-disk order. Used by
// readdir.
func (d Directory) List(dirInodeNo int) ([]image.Dirent, error) {
	inode := d.img.Inode(dirInodeNo)
	if inode.Type != image.TypeDir {
		return nil, errs.NotADir
	}

	entries := make([]image.Dirent, 0, inode.FileCount)
	for _, blockNo := range blocklist.BlocksOf(d.img, inode) {
		blockBytes := d.img.BlockBytes(blockNo)
		for slot := 0; slot < image.DirentsPerBlock; slot++ {
			entry := image.DecodeDirent(direntSlice(blockBytes, slot))
			if !entry.IsFree() {
				entries = append(entries, entry)
			}
		}
		if len(entries) >= int(inode.FileCount) {
			break
		}
	}
	return entries, nil
}
