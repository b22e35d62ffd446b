package contract

import "errors"

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrValidation      = errors.New("validation failed")
	ErrLoopExhausted   = errors.New("conversation loop exhausted")
	ErrEmptyResponse   = errors.New("model kept returning empty responses")
)
