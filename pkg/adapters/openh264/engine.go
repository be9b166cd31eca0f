//go:build cgo && openh264

// Package openh264 binds the Cisco libopenh264 encoder to ports.Engine.
package openh264

/*
#cgo pkg-config: openh264
#include <stdlib.h>
#include <string.h>
#include <wels/codec_api.h>

static int enc_create(ISVCEncoder **enc) {
    return WelsCreateSVCEncoder(enc);
}

static void enc_destroy(ISVCEncoder *enc) {
    WelsDestroySVCEncoder(enc);
}

static int enc_initialize(ISVCEncoder *enc, int usage, int width, int height, int bitrate, float fps) {
    SEncParamBase base;
    memset(&base, 0, sizeof(base));
    base.iUsageType = (EUsageType)usage;
    base.iPicWidth = width;
    base.iPicHeight = height;
    base.iTargetBitrate = bitrate;
    base.fMaxFrameRate = fps;
    return (*enc)->Initialize(enc, &base);
}

static int enc_force_intra(ISVCEncoder *enc, int force) {
    return (*enc)->ForceIntraFrame(enc, force != 0, -1);
}

static int enc_encode(ISVCEncoder *enc, SSourcePicture *pic, SFrameBSInfo *info) {
    return (*enc)->EncodeFrame(enc, pic, info);
}

static int enc_uninitialize(ISVCEncoder *enc) {
    return (*enc)->Uninitialize(enc);
}

static SLayerBSInfo *layer_at(SFrameBSInfo *info, int i) {
    return &info->sLayerInfo[i];
}

static int nal_length_at(SLayerBSInfo *layer, int i) {
    return layer->pNalLengthInByte[i];
}
*/
import "C"

import (
	"unsafe"

	"github.com/user/h264enc/pkg/ports"
)

// Engine wraps one ISVCEncoder instance.
// The source picture and its I420 storage live in C memory so that no Go
// pointers are handed to the library.
type Engine struct {
	enc    *C.ISVCEncoder
	pic    *C.SSourcePicture
	bsi    *C.SFrameBSInfo
	buf    unsafe.Pointer
	size   int
	width  int
	height int
}

// Available reports whether this build links libopenh264.
func Available() bool {
	return true
}

// New creates an encoder handle.
func New() (*Engine, error) {
	var enc *C.ISVCEncoder
	if rc := C.enc_create(&enc); rc != 0 || enc == nil {
		return nil, ErrCreateFailed
	}
	bsi := (*C.SFrameBSInfo)(C.calloc(1, C.size_t(unsafe.Sizeof(C.SFrameBSInfo{}))))
	return &Engine{enc: enc, bsi: bsi}, nil
}

// Initialize configures the encoder and allocates the source picture.
func (e *Engine) Initialize(params ports.EngineParams) error {
	usage := C.CAMERA_VIDEO_REAL_TIME
	if params.Usage == ports.UsageScreenContentRealTime {
		usage = C.SCREEN_CONTENT_REAL_TIME
	}
	rc := C.enc_initialize(e.enc, C.int(usage), C.int(params.Width), C.int(params.Height),
		C.int(params.TargetBitrate), C.float(params.MaxFrameRate))
	if rc != 0 {
		return ports.EngineStatus(rc)
	}

	e.freePicture()
	e.width, e.height = params.Width, params.Height
	lumaSize := e.width * e.height
	e.size = lumaSize * 3 / 2
	e.buf = C.malloc(C.size_t(e.size))
	e.pic = (*C.SSourcePicture)(C.calloc(1, C.size_t(unsafe.Sizeof(C.SSourcePicture{}))))
	e.pic.iColorFormat = C.videoFormatI420
	e.pic.iPicWidth = C.int(e.width)
	e.pic.iPicHeight = C.int(e.height)
	e.pic.iStride[0] = C.int(e.width)
	e.pic.iStride[1] = C.int(e.width / 2)
	e.pic.iStride[2] = C.int(e.width / 2)
	e.pic.pData[0] = (*C.uchar)(e.buf)
	e.pic.pData[1] = (*C.uchar)(unsafe.Add(e.buf, lumaSize))
	e.pic.pData[2] = (*C.uchar)(unsafe.Add(e.buf, lumaSize+lumaSize/4))
	return nil
}

// ForceIntraFrame requests an IDR picture for the next EncodeFrame call.
func (e *Engine) ForceIntraFrame(force bool) error {
	f := 0
	if force {
		f = 1
	}
	if rc := C.enc_force_intra(e.enc, C.int(f)); rc != 0 {
		return ports.EngineStatus(rc)
	}
	return nil
}

// EncodeFrame copies pic into C memory, encodes it and describes the
// resulting layers in info. Layer buffers point into encoder memory.
func (e *Engine) EncodeFrame(pic *ports.Picture, info *ports.FrameInfo) error {
	if e.pic == nil {
		return ErrNotInitialized
	}
	if pic.Width != e.width || pic.Height != e.height {
		return ports.EngineStatus(C.cmUnsupportedData)
	}

	dst := unsafe.Slice((*byte)(e.buf), e.size)
	off := 0
	for i := 0; i < 3; i++ {
		w, h := e.width, e.height
		if i > 0 {
			w, h = w/2, h/2
		}
		for y := 0; y < h; y++ {
			off += copy(dst[off:off+w], pic.Planes[i][y*pic.Strides[i]:])
		}
	}
	e.pic.uiTimeStamp = C.longlong(pic.TimestampMs)

	if rc := C.enc_encode(e.enc, e.pic, e.bsi); rc != 0 {
		return ports.EngineStatus(rc)
	}

	info.Reset()
	info.FrameType = ports.FrameType(e.bsi.eFrameType)
	info.FrameSizeBytes = int(e.bsi.iFrameSizeInBytes)
	info.TimestampMs = int64(e.bsi.uiTimeStamp)
	for i := 0; i < int(e.bsi.iLayerNum); i++ {
		l := C.layer_at(e.bsi, C.int(i))
		lengths := make([]int, int(l.iNalCount))
		total := 0
		for j := range lengths {
			lengths[j] = int(C.nal_length_at(l, C.int(j)))
			total += lengths[j]
		}
		var buf []byte
		if total > 0 {
			buf = unsafe.Slice((*byte)(unsafe.Pointer(l.pBsBuf)), total)
		}
		info.Layers = append(info.Layers, ports.LayerInfo{
			TemporalID: int(l.uiTemporalId),
			SpatialID:  int(l.uiSpatialId),
			QualityID:  int(l.uiQualityId),
			FrameType:  ports.FrameType(l.eFrameType),
			LayerType:  ports.LayerType(l.uiLayerType),
			NalLengths: lengths,
			Buf:        buf,
		})
	}
	return nil
}

// Uninitialize tears down the encoder state.
func (e *Engine) Uninitialize() error {
	if rc := C.enc_uninitialize(e.enc); rc != 0 {
		return ports.EngineStatus(rc)
	}
	return nil
}

// Destroy releases the encoder handle and all C allocations.
func (e *Engine) Destroy() {
	if e.enc == nil {
		return
	}
	C.enc_destroy(e.enc)
	e.enc = nil
	e.freePicture()
	C.free(unsafe.Pointer(e.bsi))
	e.bsi = nil
}

func (e *Engine) freePicture() {
	if e.pic != nil {
		C.free(unsafe.Pointer(e.pic))
		e.pic = nil
	}
	if e.buf != nil {
		C.free(e.buf)
		e.buf = nil
	}
}

var _ ports.Engine = (*Engine)(nil)
