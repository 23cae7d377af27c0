package inference

import "errors"

// Sentinel kinds for inference errors.
var (
	ErrTimeout   = errors.New("inference timeout")
	ErrInference = errors.New("inference failed")
	ErrBadScore  = errors.New("inference returned unparseable score")
)
