package ramfs

import (
	"io"

	"github.com/go-ramdisk/ramdisk/blocklist"
	"github.com/go-ramdisk/ramdisk/errs"
	"github.com/go-ramdisk/ramdisk/image"
)

func blocksForSize(size int) int {
	if size <= 0 {
		return 0
	}
	return (size + image.BlockSize - 1) / image.BlockSize
}

// Create makes a new regular file at path with sizeBytes reserved up front;
// writes past that reservation return errs.TooLarge. Reservation and inode
// allocation either both commit or neither does.
func (fs *FileSystem) Create(path string, sizeBytes int) (int32, error) {
	if sizeBytes < 0 || sizeBytes > image.MaxFileSize {
		return 0, errs.TooLarge
	}

	parentInode, leaf, err := fs.resolver.ResolveParent(path)
	if err != nil {
		return 0, err
	}

	if _, err := fs.dir.Lookup(int(parentInode), leaf); err == nil {
		return 0, errs.Exists
	} else if err != errs.NotFound {
		return 0, err
	}

	inodeNo, err := fs.inodes.AllocInode()
	if err != nil {
		return 0, err
	}

	if err := blocklist.Reserve(fs.Image, fs.alloc, inodeNo, blocksForSize(sizeBytes)); err != nil {
		fs.inodes.FreeInode(inodeNo)
		return 0, err
	}

	n := fs.Image.Inode(inodeNo)
	n.Type = image.TypeReg
	n.Name = leaf
	n.Size = uint32(sizeBytes)
	fs.Image.PutInode(inodeNo, n)

	if err := fs.dir.Insert(int(parentInode), leaf, int32(inodeNo)); err != nil {
		blocklist.Release(fs.Image, fs.alloc, inodeNo)
		fs.inodes.FreeInode(inodeNo)
		return 0, err
	}

	return int32(inodeNo), nil
}

// Mkdir makes a new, empty directory at path, with its single initial data
// block already reserved.
func (fs *FileSystem) Mkdir(path string) (int32, error) {
	parentInode, leaf, err := fs.resolver.ResolveParent(path)
	if err != nil {
		return 0, err
	}

	if _, err := fs.dir.Lookup(int(parentInode), leaf); err == nil {
		return 0, errs.Exists
	} else if err != errs.NotFound {
		return 0, err
	}

	inodeNo, err := fs.inodes.AllocInode()
	if err != nil {
		return 0, err
	}

	if err := blocklist.Reserve(fs.Image, fs.alloc, inodeNo, 1); err != nil {
		fs.inodes.FreeInode(inodeNo)
		return 0, err
	}

	n := fs.Image.Inode(inodeNo)
	n.Type = image.TypeDir
	n.Name = leaf
	fs.Image.PutInode(inodeNo, n)

	if err := fs.dir.Insert(int(parentInode), leaf, int32(inodeNo)); err != nil {
		blocklist.Release(fs.Image, fs.alloc, inodeNo)
		fs.inodes.FreeInode(inodeNo)
		return 0, err
	}

	return int32(inodeNo), nil
}

// Read copies up to len(buf) bytes starting at fd's current offset into
// buf, advancing the offset by the number of bytes actually read. Reading
// at or past end-of-file returns (0, nil).
func (fs *FileSystem) Read(fd int, buf []byte) (int, error) {
	entry, err := fs.lookupFd(fd)
	if err != nil {
		return 0, err
	}

	n := fs.Image.Inode(entry.inode)
	if n.Type != image.TypeReg {
		return 0, errs.IsDir
	}

	remaining := int64(n.Size) - entry.offset
	if remaining <= 0 {
		return 0, nil
	}

	want := len(buf)
	if int64(want) > remaining {
		want = int(remaining)
	}

	stream := fs.Image.Stream()
	read := 0
	for read < want {
		logical := int(entry.offset / image.BlockSize)
		within := int(entry.offset % image.BlockSize)
		phys, ok := blocklist.BlockAt(fs.Image, n, logical)
		if !ok {
			break
		}

		chunk := image.BlockSize - within
		if remainingWant := want - read; chunk > remainingWant {
			chunk = remainingWant
		}

		if _, err := stream.Seek(image.BlockOffset(phys)+int64(within), io.SeekStart); err != nil {
			return read, err
		}
		if _, err := io.ReadFull(stream, buf[read:read+chunk]); err != nil {
			return read, err
		}

		read += chunk
		entry.offset += int64(chunk)
	}
	return read, nil
}

// Write copies buf into fd's file starting at its current offset, advancing
// the offset and extending the inode's logical size if the write reaches
// past it. A write that would reach past the file's reserved capacity (the
// blocks reserved at Create time, i.e. its creation size rounded up to whole
// blocks) fails entirely with errs.TooLarge; nothing is written.
func (fs *FileSystem) Write(fd int, buf []byte) (int, error) {
	entry, err := fs.lookupFd(fd)
	if err != nil {
		return 0, err
	}

	n := fs.Image.Inode(entry.inode)
	if n.Type != image.TypeReg {
		return 0, errs.IsDir
	}

	capacityBlocks := blocklist.BlocksOf(fs.Image, n)
	capacity := int64(len(capacityBlocks)) * image.BlockSize

	if entry.offset+int64(len(buf)) > capacity {
		return 0, errs.TooLarge
	}

	stream := fs.Image.Stream()
	written := 0
	for written < len(buf) {
		logical := int(entry.offset / image.BlockSize)
		within := int(entry.offset % image.BlockSize)
		phys, ok := blocklist.BlockAt(fs.Image, n, logical)
		if !ok {
			return written, errs.Corrupt
		}

		chunk := image.BlockSize - within
		if remainingWant := len(buf) - written; chunk > remainingWant {
			chunk = remainingWant
		}

		if _, err := stream.Seek(image.BlockOffset(phys)+int64(within), io.SeekStart); err != nil {
			return written, err
		}
		if _, err := stream.Write(buf[written : written+chunk]); err != nil {
			return written, err
		}

		written += chunk
		entry.offset += int64(chunk)
	}

	if entry.offset > int64(n.Size) {
		n.Size = uint32(entry.offset)
		fs.Image.PutInode(entry.inode, n)
	}
	return written, nil
}

// Lseek repositions fd's offset to offset, clamped to [0, current size].
func (fs *FileSystem) Lseek(fd int, offset int) (int, error) {
	entry, err := fs.lookupFd(fd)
	if err != nil {
		return 0, err
	}

	n := fs.Image.Inode(entry.inode)
	size := int64(n.Size)

	newOffset := int64(offset)
	if newOffset < 0 {
		newOffset = 0
	}
	if newOffset > size {
		newOffset = size
	}
	entry.offset = newOffset
	return int(entry.offset), nil
}

// Unlink removes the entry named by path, freeing its inode and data
// blocks. It returns errs.IsRoot for "/" and errs.NotEmpty for a non-empty
// directory. An inode is freed immediately on unlink even if still open:
// any fd referencing it is silently closed, and subsequent operations
// against that fd return errs.BadFd.
func (fs *FileSystem) Unlink(path string) error {
	if path == "/" {
		return errs.IsRoot
	}

	parentInode, leaf, err := fs.resolver.ResolveParent(path)
	if err != nil {
		return err
	}

	childInode, err := fs.dir.Lookup(int(parentInode), leaf)
	if err != nil {
		return err
	}
	if childInode == image.RootInode {
		return errs.IsRoot
	}

	n := fs.Image.Inode(int(childInode))
	if n.Type == image.TypeDir && n.FileCount > 0 {
		return errs.NotEmpty
	}

	if err := fs.dir.Remove(int(parentInode), leaf); err != nil {
		return err
	}

	blocklist.Release(fs.Image, fs.alloc, int(childInode))
	fs.inodes.FreeInode(int(childInode))

	if fd, open := fs.inodeToFd[int(childInode)]; open {
		delete(fs.fds, fd)
		delete(fs.inodeToFd, int(childInode))
	}

	return nil
}

// Readdir returns the next entry of the directory open on fd, advancing its
// cursor. end is true once every entry has been returned, at which point
// name and inode are zero-valued.
func (fs *FileSystem) Readdir(fd int) (name string, inode int32, end bool, err error) {
	entry, err := fs.lookupFd(fd)
	if err != nil {
		return "", 0, false, err
	}

	n := fs.Image.Inode(entry.inode)
	if n.Type != image.TypeDir {
		return "", 0, false, errs.NotADir
	}

	entries, err := fs.dir.List(entry.inode)
	if err != nil {
		return "", 0, false, err
	}

	if entry.dirCursor >= len(entries) {
		return "", 0, true, nil
	}

	found := entries[entry.dirCursor]
	entry.dirCursor++
	return found.Name, found.Inode, false, nil
}
