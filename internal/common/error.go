package common

import "fmt"

var (
	ErrNoMatchingAnchor   = fmt.Errorf("no matching anchor found")
	ErrCacheMiss          = fmt.Errorf("cache record missing or stale")
	ErrSizeUndeterminable = fmt.Errorf("cannot determine content length")
	ErrUnknownReleaseKey  = fmt.Errorf("unknown release key")
	ErrNoteNotFound       = fmt.Errorf("note not found")
	ErrStatsDisabled      = fmt.Errorf("download statistics are disabled")
)
