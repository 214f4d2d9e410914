// Package ramfs is the operation layer: create, mkdir, open, close, read,
// write, lseek, unlink, and readdir, plus the in-memory per-client file
// descriptor table. It is the single entry point a host (dispatcher,
// user-space transfer glue, device control code - all out of scope for this
// module) calls into.
//
// Grounded on driver/driver.go and driver/file.go's fd/stream bookkeeping,
// narrowed to the spec's nine operations: no mount flags, no permissions,
// no generic os.File emulation.
package ramfs

import (
	"github.com/go-ramdisk/ramdisk/bitmap"
	"github.com/go-ramdisk/ramdisk/directory"
	"github.com/go-ramdisk/ramdisk/errs"
	"github.com/go-ramdisk/ramdisk/image"
	"github.com/go-ramdisk/ramdisk/inodetab"
	"github.com/go-ramdisk/ramdisk/pathresolve"
)

// fdEntry is one file descriptor table entry: the inode it refers to, the
// current seek offset, and (for directories) the readdir cursor.
type fdEntry struct {
	inode     int
	offset    int64
	dirCursor int
}

// FileSystem is one in-memory ramdisk image plus its file descriptor
// table. The zero value is not usable; construct with New.
//
// Callers must serialize access themselves (spec: single-threaded
// cooperative with a coarse image-level exclusion) unless they wrap a
// FileSystem with Locked.
type FileSystem struct {
	Image *image.Image

	alloc    bitmap.Allocator
	inodes   inodetab.Table
	dir      directory.Directory
	resolver pathresolve.Resolver

	fds       map[int]*fdEntry
	inodeToFd map[int]int
	nextFd    int
}

// New creates a freshly formatted ramdisk image with an empty fd table.
func New() *FileSystem {
	return FromImage(image.New())
}

// FromImage wraps an already-formatted image (e.g. one loaded from disk)
// with a fresh, empty fd table.
func FromImage(img *image.Image) *FileSystem {
	alloc := bitmap.New(img)
	dir := directory.New(img, alloc)

	return &FileSystem{
		Image:     img,
		alloc:     alloc,
		inodes:    inodetab.New(img),
		dir:       dir,
		resolver:  pathresolve.New(dir),
		fds:       make(map[int]*fdEntry),
		inodeToFd: make(map[int]int),
	}
}

// Open resolves path and returns a file descriptor for it. Opening an
// inode that's already open returns its existing fd rather than allocating
// a new one.
func (fs *FileSystem) Open(path string) (int, error) {
	inodeNo, err := fs.resolver.ResolveTarget(path)
	if err != nil {
		return 0, err
	}

	if existing, ok := fs.inodeToFd[int(inodeNo)]; ok {
		return existing, nil
	}

	fd := fs.nextFd
	fs.nextFd++
	fs.fds[fd] = &fdEntry{inode: int(inodeNo)}
	fs.inodeToFd[int(inodeNo)] = fd
	return fd, nil
}

// Close releases fd. Further operations against it return errs.BadFd.
func (fs *FileSystem) Close(fd int) error {
	entry, ok := fs.fds[fd]
	if !ok {
		return errs.BadFd
	}
	delete(fs.fds, fd)
	delete(fs.inodeToFd, entry.inode)
	return nil
}

func (fs *FileSystem) lookupFd(fd int) (*fdEntry, error) {
	entry, ok := fs.fds[fd]
	if !ok {
		return nil, errs.BadFd
	}
	return entry, nil
}
