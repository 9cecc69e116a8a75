package core

import (
	"errors"
)

var (
	ErrStateRejected  = errors.New("device rejected state descriptor")
	ErrBindRejected   = errors.New("device rejected state bind")
	ErrHandleReleased = errors.New("native handle already released")
)
