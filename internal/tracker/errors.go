package tracker

import (
	"errors"
	"fmt"
)

// ErrUpstream wraps every error returned by a FrameSource. The pipeline
// does not retry; the original error stays reachable with errors.Is/As.
var ErrUpstream = errors.New("frame source failed")

// ErrFrameSize is returned when a frame's dimensions disagree with the
// configured frame size.
var ErrFrameSize = errors.New("frame size does not match configuration")

// ConfigError reports an invalid configuration. It is fatal at startup.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// upstreamError keeps both ErrUpstream and the source's own error in the
// chain.
type upstreamError struct {
	err error
}

func (e *upstreamError) Error() string {
	return fmt.Sprintf("%v: %v", ErrUpstream, e.err)
}

func (e *upstreamError) Unwrap() []error {
	return []error{ErrUpstream, e.err}
}
