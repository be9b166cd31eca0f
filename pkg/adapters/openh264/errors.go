package openh264

import "errors"

var (
	// ErrEngineUnavailable is returned when the binary was built without libopenh264.
	ErrEngineUnavailable = errors.New("openh264: engine not available (build with cgo and -tags openh264)")

	// ErrCreateFailed is returned when WelsCreateSVCEncoder does not produce a handle.
	ErrCreateFailed = errors.New("openh264: failed to create encoder")

	// ErrNotInitialized is returned when encoding is attempted before Initialize.
	ErrNotInitialized = errors.New("openh264: encoder not initialized")
)
