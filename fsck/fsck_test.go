package fsck_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-ramdisk/ramdisk/fsck"
	"github.com/go-ramdisk/ramdisk/image"
	"github.com/go-ramdisk/ramdisk/ramfs"
)

func TestCheck__FreshImageIsClean(t *testing.T) {
	img := image.New()
	assert.NoError(t, fsck.Check(img))
}

func TestCheck__CleanAfterOperations(t *testing.T) {
	fs := ramfs.New()

	_, err := fs.Mkdir("/docs")
	require.NoError(t, err)
	_, err = fs.Create("/docs/readme.txt", 100)
	require.NoError(t, err)

	assert.NoError(t, fsck.Check(fs.Image))
}

func TestCheck__DetectsFreeBlockMiscount(t *testing.T) {
	img := image.New()
	sb := img.Superblock()
	sb.FreeBlocks++
	img.PutSuperblock(sb)

	err := fsck.Check(img)
	assert.Error(t, err)
}

func TestCheck__DetectsCorruptedRoot(t *testing.T) {
	img := image.New()
	root := img.Inode(image.RootInode)
	root.Name = "not-root"
	img.PutInode(image.RootInode, root)

	err := fsck.Check(img)
	assert.Error(t, err)
}
