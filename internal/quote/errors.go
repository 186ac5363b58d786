package quote

import "errors"

// ErrInvalidItem is wrapped by every line-item decoding failure.
var ErrInvalidItem = errors.New("invalid line item")
