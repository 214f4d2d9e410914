// Package errs defines the closed taxonomy of errors the ramdisk core can
// return. None of them are POSIX errno codes: the core's failure modes
// (IsRoot, FdTableFull, Corrupt, ...) don't map cleanly onto the standard
// errno set, so each is its own named sentinel instead.
package errs

import "fmt"

type RamdiskError string

// Resource exhaustion
const NoSpace = RamdiskError("no free data blocks")
const NoInodes = RamdiskError("no free inode slots")
const TooLarge = RamdiskError("file exceeds maximum size")
const FdTableFull = RamdiskError("file descriptor table is full")

// Lookup
const NotFound = RamdiskError("no such file or directory")
const Exists = RamdiskError("file already exists")
const NotADir = RamdiskError("not a directory")
const IsDir = RamdiskError("is a directory")
const IsRoot = RamdiskError("root directory cannot be unlinked")
const NotEmpty = RamdiskError("directory not empty")

// Client state
const BadFd = RamdiskError("bad file descriptor")

// Format
const NameTooLong = RamdiskError("name too long")
const PathInvalid = RamdiskError("invalid path")

// Internal
const Corrupt = RamdiskError("data corruption: broken file system invariant")

func (e RamdiskError) Error() string {
	return string(e)
}

func (e RamdiskError) WithMessage(message string) DriverError {
	return customDriverError{
		message:       fmt.Sprintf("%s: %s", string(e), message),
		originalError: e,
	}
}

func (e RamdiskError) WrapError(err error) DriverError {
	return customDriverError{
		message:       fmt.Sprintf("%s: %s", string(e), err.Error()),
		originalError: err,
	}
}
