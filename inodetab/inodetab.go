// Package inodetab manages allocation and freeing of inode table slots.
// Grounded on the same first-fit linear-scan idiom as bitmap.Allocator
// (itself grounded on drivers/common/allocatormap.go's Allocator), applied
// to inode slots instead of data blocks.
package inodetab

import (
	"github.com/go-ramdisk/ramdisk/errs"
	"github.com/go-ramdisk/ramdisk/image"
)

// Table manages the inode table's free/allocated slots and the superblock's
// free-inode counter for one image.
type Table struct {
	img *image.Image
}

// New returns a table bound to img's inode region.
func New(img *image.Image) Table {
	return Table{img: img}
}

// FreeInodes returns the current free-inode count from the superblock.
func (t Table) FreeInodes() uint32 {
	return t.img.Superblock().FreeInodes
}

// AllocInode scans slots 0..InodeCount for the first whose type is empty.
// It fills all ten block-pointer fields with image.NoBlock and decrements
// the free-inode count, but deliberately leaves Type empty: the caller must
// commit a non-empty type before the slot is considered allocated. Until
// then the slot still reads as free, so a second AllocInode returns the same
// slot. A caller that aborts without committing must call FreeInode to
// restore the free-inode count, which has already been decremented.
func (t Table) AllocInode() (int, error) {
	for i := 0; i < image.InodeCount; i++ {
		n := t.img.Inode(i)
		if n.IsFree() {
			blank := image.FreeInode()
			t.img.PutInode(i, blank)

			sb := t.img.Superblock()
			sb.FreeInodes--
			t.img.PutSuperblock(sb)
			return i, nil
		}
	}
	return 0, errs.NoInodes
}

// FreeInode zeroes the entire slot and increments the free-inode count.
// Precondition: every data block referenced by this inode has already been
// released (see blocklist.Release). Must never be called on inode 0 (root).
//
// This writes a true all-zero slot, not image.FreeInode()'s all-NoBlock
// pointers: those are two different states. image.FreeInode() is AllocInode's
// "not yet committed" marker, holding -1 sentinels so a half-allocated inode
// still reads as empty-typed. A freed slot has never been committed to
// anything and must round-trip back to the same all-zero bytes a never-used
// slot starts with, per the create/unlink round-trip law.
func (t Table) FreeInode(inodeNo int) {
	if inodeNo == image.RootInode {
		panic("inodetab: attempted to free the root inode")
	}
	t.img.PutInode(inodeNo, image.Inode{})

	sb := t.img.Superblock()
	sb.FreeInodes++
	t.img.PutSuperblock(sb)
}
