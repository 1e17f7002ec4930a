package listing

import "errors"

var (
	ErrItemNotFound      = errors.New("item not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrNotSeller         = errors.New("not the seller of this item")
	ErrNameRequired      = errors.New("name is required")
	ErrPhoneRequired     = errors.New("a WhatsApp number is required")
	ErrHostelRequired    = errors.New("a hostel is required")
	ErrTooManyImages     = errors.New("too many images")
	ErrNoItemsSelected   = errors.New("no valid items were selected")
	ErrUnknownBulkAction = errors.New("unknown bulk action")
	ErrInvalidSortKey    = errors.New("invalid sort key")
	ErrInvalidPrice      = errors.New("invalid price")
)
