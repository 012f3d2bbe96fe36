package alloc

import "errors"

var (
	// ErrBadRef indicates an out-of-bounds payload reference.
	ErrBadRef = errors.New("alloc: bad payload reference")

	// ErrTooLarge indicates a request whose block size would not fit the
	// 32-bit header size field.
	ErrTooLarge = errors.New("alloc: request exceeds maximum block size")

	// ErrBadConfig indicates an invalid tunable combination.
	ErrBadConfig = errors.New("alloc: invalid configuration")
)
