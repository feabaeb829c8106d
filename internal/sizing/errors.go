package sizing

import "errors"

// ErrInvalidArgument is returned for non-positive panel counts, misaligned
// input series, non-finite temperatures and inconsistent [Params].
var ErrInvalidArgument = errors.New("invalid argument")
