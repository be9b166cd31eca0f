package ports

import "fmt"

// Usage selects the encoder's rate-control profile.
type Usage int

const (
	// UsageCameraRealTime targets live camera capture.
	UsageCameraRealTime Usage = iota
	// UsageScreenContentRealTime targets live screen capture.
	UsageScreenContentRealTime
)

// String returns the string representation of the usage.
func (u Usage) String() string {
	switch u {
	case UsageCameraRealTime:
		return "camera_real_time"
	case UsageScreenContentRealTime:
		return "screen_content_real_time"
	default:
		return "unknown"
	}
}

// ColorFormat identifies the planar layout of a Picture.
type ColorFormat int

const (
	// ColorFormatI420 is 8-bit planar YUV 4:2:0 (Y, then U, then V).
	ColorFormatI420 ColorFormat = iota
)

// EngineParams configures an Engine at initialization.
type EngineParams struct {
	Width         int
	Height        int
	MaxFrameRate  float64
	TargetBitrate int // bits per second
	Usage         Usage
}

// Picture describes one source picture handed to the engine.
// Planes are views into storage owned by the caller.
type Picture struct {
	Width       int
	Height      int
	ColorFormat ColorFormat
	Strides     [3]int
	Planes      [3][]byte
	TimestampMs int64
}

// FrameType classifies an encoded frame.
type FrameType int

const (
	FrameTypeInvalid FrameType = iota
	FrameTypeIDR
	FrameTypeI
	FrameTypeP
	FrameTypeSkip
	FrameTypeIPMixed
)

// String returns the string representation of the frame type.
func (t FrameType) String() string {
	switch t {
	case FrameTypeIDR:
		return "IDR"
	case FrameTypeI:
		return "I"
	case FrameTypeP:
		return "P"
	case FrameTypeSkip:
		return "skip"
	case FrameTypeIPMixed:
		return "IPMixed"
	default:
		return "invalid"
	}
}

// IsKey reports whether the frame type starts a decodable sequence.
func (t FrameType) IsKey() bool {
	return t == FrameTypeIDR || t == FrameTypeI
}

// LayerType distinguishes parameter-set layers from coded picture layers.
type LayerType int

const (
	// LayerTypeNonVideoCoding carries SPS/PPS and similar NAL units.
	LayerTypeNonVideoCoding LayerType = iota
	// LayerTypeVideoCoding carries slice data.
	LayerTypeVideoCoding
)

// LayerInfo describes one layer of an encoded frame.
// Buf is borrowed from the engine and stays valid only until the next
// EncodeFrame call. The first sum(NalLengths) bytes of Buf are the layer.
type LayerInfo struct {
	TemporalID int
	SpatialID  int
	QualityID  int
	FrameType  FrameType
	LayerType  LayerType
	NalLengths []int
	Buf        []byte
}

// FrameInfo is the engine's output description for one EncodeFrame call.
type FrameInfo struct {
	Layers         []LayerInfo
	FrameType      FrameType
	FrameSizeBytes int
	TimestampMs    int64
}

// Reset clears the description while keeping its layer slice capacity.
func (f *FrameInfo) Reset() {
	f.Layers = f.Layers[:0]
	f.FrameType = FrameTypeInvalid
	f.FrameSizeBytes = 0
	f.TimestampMs = 0
}

// EngineStatus is a non-zero native status code reported by an engine.
type EngineStatus int

// EngineStatusUnknown is used for engine failures that carry no native code.
const EngineStatusUnknown EngineStatus = 2

func (s EngineStatus) Error() string {
	return fmt.Sprintf("engine status %d", int(s))
}

// Engine abstracts a single-stream H.264 encoder instance.
//
// The lifecycle is Initialize, any number of ForceIntraFrame/EncodeFrame
// calls, Uninitialize, then Destroy. Destroy releases the handle and must be
// called exactly once; it is valid even when Initialize failed.
type Engine interface {
	// Initialize configures the engine for the given parameters.
	Initialize(params EngineParams) error

	// ForceIntraFrame requests that the next encoded frame be an IDR frame.
	ForceIntraFrame(force bool) error

	// EncodeFrame encodes pic and fills info with the produced layers.
	EncodeFrame(pic *Picture, info *FrameInfo) error

	// Uninitialize tears down the encoding state set up by Initialize.
	Uninitialize() error

	// Destroy releases the engine handle.
	Destroy()
}
