package ai

import "errors"

var (
	ErrInputRejected    = errors.New("input rejected")
	ErrModelRefused     = errors.New("model returned text instead of an image")
	ErrNoOutputProduced = errors.New("no image was produced")
	ErrTransportFailure = errors.New("image generation request failed")
)

// Code maps a generation failure to a stable machine-readable code.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInputRejected):
		return "input_rejected"
	case errors.Is(err, ErrModelRefused):
		return "model_refused"
	case errors.Is(err, ErrNoOutputProduced):
		return "no_output"
	case errors.Is(err, ErrTransportFailure):
		return "transport_failure"
	default:
		return "internal_error"
	}
}
