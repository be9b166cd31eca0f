package engines

import (
	"errors"
	"testing"

	"github.com/user/h264enc/pkg/adapters/openh264"
	"github.com/user/h264enc/pkg/adapters/pcmengine"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Name
		wantErr bool
	}{
		{"", NameAuto, false},
		{"auto", NameAuto, false},
		{"pcm", NamePCM, false},
		{"openh264", NameOpenH264, false},
		{"x264", "", true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewPCM(t *testing.T) {
	engine, info, err := New(NamePCM, Options{SkipDuplicates: true})
	if err != nil {
		t.Fatalf("failed to create pcm engine: %v", err)
	}
	defer engine.Destroy()

	if _, ok := engine.(*pcmengine.Engine); !ok {
		t.Errorf("expected *pcmengine.Engine, got %T", engine)
	}
	if info.Name != NamePCM || info.Requested != NamePCM {
		t.Errorf("unexpected info %+v", info)
	}
	if info.FallbackUsed {
		t.Error("fallback should not be used for pcm")
	}
}

func TestNewAuto(t *testing.T) {
	engine, info, err := New(NameAuto, Options{})
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	defer engine.Destroy()

	if info.Requested != NameAuto {
		t.Errorf("expected requested auto, got %s", info.Requested)
	}
	if !openh264.Available() && info.Name != NamePCM {
		t.Errorf("expected pcm without openh264, got %s", info.Name)
	}
	t.Logf("Selected engine: %s (fallback=%v)", info.Name, info.FallbackUsed)
}

func TestNewOpenH264(t *testing.T) {
	engine, _, err := New(NameOpenH264, Options{})
	if openh264.Available() {
		if err != nil {
			t.Fatalf("failed to create openh264 engine: %v", err)
		}
		engine.Destroy()
		return
	}
	if !errors.Is(err, openh264.ErrEngineUnavailable) {
		t.Errorf("expected ErrEngineUnavailable, got %v", err)
	}
}

func TestNewUnknown(t *testing.T) {
	if _, _, err := New("vp8", Options{}); !errors.Is(err, ErrUnknownEngine) {
		t.Errorf("expected ErrUnknownEngine, got %v", err)
	}
}

func TestAvailable(t *testing.T) {
	list := Available()
	if len(list) != 2 {
		t.Fatalf("expected 2 engines, got %d", len(list))
	}
	for _, a := range list {
		if a.Name == NamePCM && !a.Available {
			t.Error("pcm should always be available")
		}
		t.Logf("%s available: %v", a.Name, a.Available)
	}
}
