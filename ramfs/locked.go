package ramfs

import "sync"

// LockedFileSystem wraps a FileSystem with a single mutex held across every
// operation, for hosts that are themselves multi-threaded and want the core
// to serialize access rather than trusting the caller to. This is a
// convenience extension, not part of the spec's required surface: nothing
// here does finer-grained locking than one mutex per image.
type LockedFileSystem struct {
	mu sync.Mutex
	fs *FileSystem
}

// Locked wraps fs so every operation below takes mu first.
func (fs *FileSystem) Locked() *LockedFileSystem {
	return &LockedFileSystem{fs: fs}
}

func (l *LockedFileSystem) Create(path string, sizeBytes int) (int32, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fs.Create(path, sizeBytes)
}

func (l *LockedFileSystem) Mkdir(path string) (int32, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fs.Mkdir(path)
}

func (l *LockedFileSystem) Open(path string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fs.Open(path)
}

func (l *LockedFileSystem) Close(fd int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fs.Close(fd)
}

func (l *LockedFileSystem) Read(fd int, buf []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fs.Read(fd, buf)
}

func (l *LockedFileSystem) Write(fd int, buf []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fs.Write(fd, buf)
}

func (l *LockedFileSystem) Lseek(fd int, offset int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fs.Lseek(fd, offset)
}

func (l *LockedFileSystem) Unlink(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fs.Unlink(path)
}

func (l *LockedFileSystem) Readdir(fd int) (name string, inode int32, end bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fs.Readdir(fd)
}
