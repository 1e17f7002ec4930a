package reaction

import "errors"

var (
	ErrItemNotFound     = errors.New("item not found")
	ErrReactionNotFound = errors.New("reaction not found")
	ErrEmojiRequired    = errors.New("emoji is required")
	ErrEmojiTooLong     = errors.New("emoji is too long")
)
