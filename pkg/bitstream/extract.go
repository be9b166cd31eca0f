// Package bitstream turns an engine's output description into caller-owned
// layer buffers and delivers them to a sink.
package bitstream

import (
	"errors"
	"fmt"

	"github.com/user/h264enc/pkg/ports"
)

// ErrLayerOverrun is returned when a layer's NAL unit lengths describe more
// bytes than its buffer holds.
var ErrLayerOverrun = errors.New("layer NAL lengths exceed buffer")

// EncodedLayer is one layer of an encoded frame, copied out of engine storage.
type EncodedLayer struct {
	Index       int
	Data        []byte
	KeyFrame    bool
	LayerType   ports.LayerType
	TimestampMs int64
}

// Extract copies every layer described by info into its own buffer.
//
// The size of a layer is the sum of its NAL unit lengths. Every layer of a
// frame carries the same key flag, set when the frame type is IDR or I.
// Layers are returned in engine order. A layer whose lengths are negative or
// overrun its buffer fails the whole frame with ErrLayerOverrun.
func Extract(info *ports.FrameInfo) ([]EncodedLayer, error) {
	if info == nil || len(info.Layers) == 0 {
		return nil, nil
	}
	key := info.FrameType.IsKey()
	layers := make([]EncodedLayer, 0, len(info.Layers))
	for i, l := range info.Layers {
		size := 0
		for _, n := range l.NalLengths {
			if n < 0 {
				return nil, fmt.Errorf("%w: layer %d has NAL length %d", ErrLayerOverrun, i, n)
			}
			size += n
		}
		if size > len(l.Buf) {
			return nil, fmt.Errorf("%w: layer %d needs %d bytes, buffer holds %d", ErrLayerOverrun, i, size, len(l.Buf))
		}
		data := make([]byte, size)
		copy(data, l.Buf[:size])
		layers = append(layers, EncodedLayer{
			Index:       i,
			Data:        data,
			KeyFrame:    key,
			LayerType:   l.LayerType,
			TimestampMs: info.TimestampMs,
		})
	}
	return layers, nil
}

// Dispatch hands each layer to sink in order, on the calling goroutine.
func Dispatch(sink ports.LayerSink, layers []EncodedLayer) {
	for _, l := range layers {
		sink.OnEncodedLayer(l.Data, l.KeyFrame)
	}
}
