package docfill

import "errors"

// Error kinds returned (wrapped) by the fill pipeline. Use errors.Is to classify.
var (
	ErrTemplateNotFound    = errors.New("template not found")
	ErrTemplateUnreadable  = errors.New("template unreadable")
	ErrInvalidFieldMap     = errors.New("invalid field map")
	ErrCellRewriteFailed   = errors.New("cell rewrite failed") // per cell, never fatal
	ErrSerializationFailed = errors.New("serialization failed")
)
