//go:build !cgo || !openh264

// Package openh264 binds the Cisco libopenh264 encoder to ports.Engine.
// This build does not link the library; every constructor fails.
package openh264

import "github.com/user/h264enc/pkg/ports"

// Engine is unavailable in this build.
type Engine struct{}

// Available reports whether this build links libopenh264.
func Available() bool {
	return false
}

// New always fails with ErrEngineUnavailable.
func New() (*Engine, error) {
	return nil, ErrEngineUnavailable
}

func (e *Engine) Initialize(ports.EngineParams) error { return ErrEngineUnavailable }

func (e *Engine) ForceIntraFrame(bool) error { return ErrEngineUnavailable }

func (e *Engine) EncodeFrame(*ports.Picture, *ports.FrameInfo) error { return ErrEngineUnavailable }

func (e *Engine) Uninitialize() error { return ErrEngineUnavailable }

func (e *Engine) Destroy() {}

var _ ports.Engine = (*Engine)(nil)
