package ramfs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-ramdisk/ramdisk/blocklist"
	"github.com/go-ramdisk/ramdisk/errs"
	"github.com/go-ramdisk/ramdisk/image"
	"github.com/go-ramdisk/ramdisk/ramfs"
)

// Scenario 1: fresh image, create one file.
func TestScenario__FreshImageCreateOneFile(t *testing.T) {
	fs := ramfs.New()

	inodeNo, err := fs.Create("/a.txt", 300)
	require.NoError(t, err)
	assert.EqualValues(t, 1, inodeNo, "root occupies slot 0, first created file gets slot 1")

	n := fs.Image.Inode(int(inodeNo))
	assert.Equal(t, image.TypeReg, n.Type)
	assert.Equal(t, "a.txt", n.Name)
	assert.EqualValues(t, 300, n.Size)

	blocks := blocklist.BlocksOf(fs.Image, n)
	assert.Len(t, blocks, 2, "300 bytes needs ceil(300/256) = 2 blocks")

	root := fs.Image.Inode(image.RootInode)
	assert.EqualValues(t, 1, root.FileCount)
}

// Scenario 2: lookup path of depth 2.
func TestScenario__LookupPathDepth2(t *testing.T) {
	fs := ramfs.New()

	dirInode, err := fs.Mkdir("/d")
	require.NoError(t, err)
	assert.EqualValues(t, 1, dirInode)

	fileInode, err := fs.Create("/d/x", 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, fileInode)

	fd, err := fs.Open("/d/x")
	require.NoError(t, err)
	require.NoError(t, fs.Close(fd))

	_, err = fs.Open("/d/y")
	assert.Equal(t, errs.NotFound, err)
}

// Scenario 3: unlink releases blocks back to their pre-create state.
func TestScenario__UnlinkReleasesBlocks(t *testing.T) {
	fs := ramfs.New()

	before := fs.Image.Superblock().FreeBlocks
	bitmapBefore := append([]byte(nil), bitmapRegionOf(fs)...)

	const hundredKB = 100 * 1024
	_, err := fs.Create("/big.bin", hundredKB)
	require.NoError(t, err)

	require.NoError(t, fs.Unlink("/big.bin"))

	assert.Equal(t, before, fs.Image.Superblock().FreeBlocks)
	assert.Equal(t, bitmapBefore, bitmapRegionOf(fs))
}

func bitmapRegionOf(fs *ramfs.FileSystem) []byte {
	return fs.Image.BitmapRegion()
}

// Scenario 4: write-read round-trip.
func TestScenario__WriteReadRoundTrip(t *testing.T) {
	fs := ramfs.New()

	_, err := fs.Create("/f", 1024)
	require.NoError(t, err)
	fd, err := fs.Open("/f")
	require.NoError(t, err)

	payload := make([]byte, 1024)
	for i := range payload {
		payload[i] = byte(i % 256)
	}

	n, err := fs.Write(fd, payload)
	require.NoError(t, err)
	assert.Equal(t, 1024, n)

	_, err = fs.Lseek(fd, 0)
	require.NoError(t, err)

	readBack := make([]byte, 1024)
	n, err = fs.Read(fd, readBack)
	require.NoError(t, err)
	assert.Equal(t, 1024, n)
	assert.Equal(t, payload, readBack)
}

// Scenario 5: name collision leaves the image unchanged from after the
// first create.
func TestScenario__NameCollisionLeavesImageUnchanged(t *testing.T) {
	fs := ramfs.New()

	_, err := fs.Create("/a", 10)
	require.NoError(t, err)

	freeBlocksBefore := fs.Image.Superblock().FreeBlocks
	freeInodesBefore := fs.Image.Superblock().FreeInodes

	_, err = fs.Create("/a", 10)
	assert.Equal(t, errs.Exists, err)

	assert.Equal(t, freeBlocksBefore, fs.Image.Superblock().FreeBlocks)
	assert.Equal(t, freeInodesBefore, fs.Image.Superblock().FreeInodes)
}

// Scenario 6: exhaustion. Exactly InodeCount-1 empty-file creates succeed
// (root occupies slot 0), and the next one fails with NoInodes.
func TestScenario__ExhaustionStopsAtNoInodes(t *testing.T) {
	fs := ramfs.New()

	succeeded := 0
	for i := 0; i < image.InodeCount*2; i++ {
		name := "/f" + string(rune('a'+(i%26))) + string(rune('a'+((i/26)%26))) + string(rune('a'+((i/676)%26)))
		_, err := fs.Create(name, 0)
		if err != nil {
			assert.Equal(t, errs.NoInodes, err)
			break
		}
		succeeded++
	}
	assert.Equal(t, image.InodeCount-1, succeeded)
}
