package scheduler

import "errors"

var (
	ErrUnknownTrack  = errors.New("unknown track")
	ErrTrackDisabled = errors.New("track disabled")
)
