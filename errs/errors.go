package errs

// DriverError is a RamdiskError with additional context attached. An error
// built with WithMessage unwraps to the error it was called on, so callers
// that only care whether an operation failed with, say, errs.NotFound can
// still use errors.Is/errors.As against the sentinel. An error built with
// WrapError unwraps to the error passed to it, not to the sentinel.
type DriverError interface {
	error
	WithMessage(message string) DriverError
	WrapError(err error) DriverError
}

type customDriverError struct {
	message       string
	originalError error
}

func (e customDriverError) Error() string {
	return e.message
}

func (e customDriverError) WithMessage(message string) DriverError {
	return customDriverError{
		message:       e.message + ": " + message,
		originalError: e,
	}
}

func (e customDriverError) WrapError(err error) DriverError {
	return customDriverError{
		message:       e.message + ": " + err.Error(),
		originalError: err,
	}
}

func (e customDriverError) Unwrap() error {
	return e.originalError
}
