// Package pathresolve splits a '/'-delimited absolute path and walks
// directories from root, calling into the directory layer for each
// segment. New code: the teacher's lookup machinery (driver/driver.go) is
// shaped around a mounted, chdir-aware POSIX tree; this is the narrower
// from-root walk the spec calls for, built on the same
// lookup-by-segment idiom.
package pathresolve

import (
	"strings"

	"github.com/go-ramdisk/ramdisk/directory"
	"github.com/go-ramdisk/ramdisk/errs"
	"github.com/go-ramdisk/ramdisk/image"
)

// Resolver walks absolute paths against one image's directory tree.
type Resolver struct {
	dir directory.Directory
}

// New returns a resolver bound to dir.
func New(dir directory.Directory) Resolver {
	return Resolver{dir: dir}
}

// splitSegments splits an absolute path into non-empty segments. A leading
// '/' is required; repeated or trailing slashes collapse away, so a
// trailing '/' on a non-directory resolves as if it weren't there. Each
// segment must be at most image.MaxNameLength bytes.
func splitSegments(path string) ([]string, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, errs.PathInvalid
	}

	parts := strings.Split(path, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if len(p) > image.MaxNameLength {
			return nil, errs.NameTooLong
		}
		segments = append(segments, p)
	}
	return segments, nil
}

// ResolveTarget resolves every segment of path, returning the final inode
// number. The root path "/" resolves to image.RootInode.
func (r Resolver) ResolveTarget(path string) (int32, error) {
	segments, err := splitSegments(path)
	if err != nil {
		return 0, err
	}

	current := int32(image.RootInode)
	for _, segment := range segments {
		next, err := r.dir.Lookup(int(current), segment)
		if err != nil {
			return 0, err
		}
		current = next
	}
	return current, nil
}

// ResolveParent resolves every segment except the last, which must all be
// directories, and returns (parent inode, leaf name). The root path "/" has
// no parent and is rejected with errs.PathInvalid.
func (r Resolver) ResolveParent(path string) (int32, string, error) {
	segments, err := splitSegments(path)
	if err != nil {
		return 0, "", err
	}
	if len(segments) == 0 {
		return 0, "", errs.PathInvalid
	}

	current := int32(image.RootInode)
	for _, segment := range segments[:len(segments)-1] {
		next, err := r.dir.Lookup(int(current), segment)
		if err != nil {
			return 0, "", err
		}
		current = next
	}
	return current, segments[len(segments)-1], nil
}
