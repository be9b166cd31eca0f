// Package engines selects an H.264 engine implementation by name with
// fallback support.
package engines

import (
	"errors"
	"fmt"

	"github.com/user/h264enc/pkg/adapters/openh264"
	"github.com/user/h264enc/pkg/adapters/pcmengine"
	"github.com/user/h264enc/pkg/ports"
)

// Name identifies an engine implementation.
type Name string

const (
	// NamePCM is the built-in pure Go I_PCM engine.
	NamePCM Name = "pcm"
	// NameOpenH264 is Cisco's libopenh264 via cgo.
	NameOpenH264 Name = "openh264"
	// NameAuto prefers openh264 and falls back to pcm.
	NameAuto Name = "auto"
)

// Info contains information about the selected engine.
type Info struct {
	// Name is the engine actually created.
	Name Name
	// Requested is the name that was originally requested.
	Requested Name
	// FallbackUsed indicates whether a fallback occurred.
	FallbackUsed bool
}

// Options configures engine creation.
type Options struct {
	// SkipDuplicates lets the pcm engine report unchanged frames as skipped.
	SkipDuplicates bool
	// Logger is used to log fallback warnings.
	Logger ports.Logger
}

var (
	// ErrUnknownEngine is returned for names that are not registered.
	ErrUnknownEngine = errors.New("engines: unknown engine")
)

// Parse converts a user supplied name to a Name. The empty string means auto.
func Parse(s string) (Name, error) {
	switch Name(s) {
	case "":
		return NameAuto, nil
	case NamePCM, NameOpenH264, NameAuto:
		return Name(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEngine, s)
	}
}

// New creates an engine.
//
// The selection flow for auto:
//  1. Try openh264 when this build links it
//  2. Fall back to pcm
func New(name Name, opts Options) (ports.Engine, Info, error) {
	info := Info{Requested: name}

	switch name {
	case NamePCM:
		info.Name = NamePCM
		return newPCM(opts), info, nil
	case NameOpenH264:
		e, err := openh264.New()
		if err != nil {
			return nil, Info{}, err
		}
		info.Name = NameOpenH264
		return e, info, nil
	case NameAuto:
		if openh264.Available() {
			if e, err := openh264.New(); err == nil {
				info.Name = NameOpenH264
				return e, info, nil
			} else if opts.Logger != nil {
				opts.Logger.Warn("openh264 unavailable, falling back to pcm: %v", err)
			}
		}
		info.Name = NamePCM
		info.FallbackUsed = openh264.Available()
		return newPCM(opts), info, nil
	default:
		return nil, Info{}, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
}

func newPCM(opts Options) ports.Engine {
	o := pcmengine.DefaultOptions()
	o.SkipDuplicates = opts.SkipDuplicates
	return pcmengine.NewWithOptions(o)
}

// Availability lists every registered engine and whether it can be created
// in this build.
type Availability struct {
	Name      Name
	Available bool
}

// Available returns the availability of each concrete engine.
func Available() []Availability {
	return []Availability{
		{Name: NameOpenH264, Available: openh264.Available()},
		{Name: NamePCM, Available: true},
	}
}
