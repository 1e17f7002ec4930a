package person

import "errors"

var (
	ErrPersonNotFound = errors.New("person not found")
	ErrEmailRequired  = errors.New("email is required")
	ErrHostelNotFound = errors.New("hostel not found")
)
