package ramfs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-ramdisk/ramdisk/errs"
	"github.com/go-ramdisk/ramdisk/image"
	"github.com/go-ramdisk/ramdisk/ramfs"
)

func TestCreateOpenWriteReadClose__RoundTrip(t *testing.T) {
	fs := ramfs.New()

	_, err := fs.Create("/greeting.txt", 32)
	require.NoError(t, err)

	fd, err := fs.Open("/greeting.txt")
	require.NoError(t, err)

	payload := []byte("hello, ramdisk")
	n, err := fs.Write(fd, payload)
	require.NoError(t, err)
	assert.Equal(t, len(payload), n)

	_, err = fs.Lseek(fd, 0)
	require.NoError(t, err)

	buf := make([]byte, len(payload))
	n, err = fs.Read(fd, buf)
	require.NoError(t, err)
	assert.Equal(t, len(payload), n)
	assert.Equal(t, payload, buf)

	require.NoError(t, fs.Close(fd))
}

func TestOpen__ReturnsSameFdForAlreadyOpenInode(t *testing.T) {
	fs := ramfs.New()
	_, err := fs.Create("/a.txt", 8)
	require.NoError(t, err)

	fd1, err := fs.Open("/a.txt")
	require.NoError(t, err)
	fd2, err := fs.Open("/a.txt")
	require.NoError(t, err)
	assert.Equal(t, fd1, fd2)
}

func TestWrite__PastReservedCapacityFails(t *testing.T) {
	fs := ramfs.New()
	_, err := fs.Create("/small.bin", 4)
	require.NoError(t, err)

	fd, err := fs.Open("/small.bin")
	require.NoError(t, err)

	// One block (256 bytes) is reserved regardless of the 4-byte logical
	// size; writing past the block boundary must fail.
	n, err := fs.Write(fd, make([]byte, image.BlockSize+1))
	assert.Equal(t, errs.TooLarge, err)
	assert.Zero(t, n)
}

func TestRead__StopsAtEOF(t *testing.T) {
	fs := ramfs.New()
	_, err := fs.Create("/x.bin", 10)
	require.NoError(t, err)

	fd, err := fs.Open("/x.bin")
	require.NoError(t, err)

	_, err = fs.Write(fd, []byte("0123456789"))
	require.NoError(t, err)

	_, err = fs.Lseek(fd, 0)
	require.NoError(t, err)

	buf := make([]byte, 100)
	n, err := fs.Read(fd, buf)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	n, err = fs.Read(fd, buf)
	require.NoError(t, err)
	assert.Zero(t, n, "reading again at EOF returns 0 bytes, not an error")
}

func TestLseek__ClampsToFileSize(t *testing.T) {
	fs := ramfs.New()
	_, err := fs.Create("/x.bin", 10)
	require.NoError(t, err)
	fd, err := fs.Open("/x.bin")
	require.NoError(t, err)

	pos, err := fs.Lseek(fd, 9999)
	require.NoError(t, err)
	assert.EqualValues(t, 10, pos)

	pos, err = fs.Lseek(fd, -5)
	require.NoError(t, err)
	assert.Zero(t, pos)
}

func TestMkdirAndReaddir__ListsChildren(t *testing.T) {
	fs := ramfs.New()
	_, err := fs.Mkdir("/dir")
	require.NoError(t, err)
	_, err = fs.Create("/dir/one.txt", 1)
	require.NoError(t, err)
	_, err = fs.Create("/dir/two.txt", 1)
	require.NoError(t, err)

	fd, err := fs.Open("/dir")
	require.NoError(t, err)

	seen := map[string]bool{}
	for {
		name, _, end, err := fs.Readdir(fd)
		require.NoError(t, err)
		if end {
			break
		}
		seen[name] = true
	}
	assert.True(t, seen["one.txt"])
	assert.True(t, seen["two.txt"])
}

func TestUnlink__RootRejected(t *testing.T) {
	fs := ramfs.New()
	assert.Equal(t, errs.IsRoot, fs.Unlink("/"))
}

func TestUnlink__NonEmptyDirRejected(t *testing.T) {
	fs := ramfs.New()
	_, err := fs.Mkdir("/dir")
	require.NoError(t, err)
	_, err = fs.Create("/dir/file.txt", 1)
	require.NoError(t, err)

	assert.Equal(t, errs.NotEmpty, fs.Unlink("/dir"))
}

func TestUnlink__InvalidatesOpenFd(t *testing.T) {
	fs := ramfs.New()
	_, err := fs.Create("/gone.txt", 4)
	require.NoError(t, err)
	fd, err := fs.Open("/gone.txt")
	require.NoError(t, err)

	require.NoError(t, fs.Unlink("/gone.txt"))

	_, err = fs.Read(fd, make([]byte, 1))
	assert.Equal(t, errs.BadFd, err)
}

func TestCreate__DuplicateNameRejected(t *testing.T) {
	fs := ramfs.New()
	_, err := fs.Create("/dup.txt", 1)
	require.NoError(t, err)

	_, err = fs.Create("/dup.txt", 1)
	assert.Equal(t, errs.Exists, err)
}

func TestRead__AgainstDirectoryFdIsRejected(t *testing.T) {
	fs := ramfs.New()
	_, err := fs.Mkdir("/d")
	require.NoError(t, err)
	fd, err := fs.Open("/d")
	require.NoError(t, err)

	_, err = fs.Read(fd, make([]byte, 1))
	assert.Equal(t, errs.IsDir, err)
}

func TestClose__BadFd(t *testing.T) {
	fs := ramfs.New()
	assert.Equal(t, errs.BadFd, fs.Close(999))
}
