package protocol

import "errors"

var (
	ErrTooLong        = errors.New("packet too long for serialize buffer")
	ErrEmptyPayload   = errors.New("packet payload is empty")
	ErrInvalidAddress = errors.New("invalid address")
	ErrInvalidSpeed   = errors.New("invalid speed")
)
