package feedback

import "errors"

var (
	ErrMessageRequired    = errors.New("message is required")
	ErrMessageTooLong     = errors.New("message is too long")
	ErrTooManyImages      = errors.New("too many images")
	ErrStorageUnavailable = errors.New("image storage is not configured")
)
