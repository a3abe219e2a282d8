package display

import "testing"

func TestMode_AspectRatio(t *testing.T) {
	tests := []struct {
		w, h uint32
		want string
	}{
		{1920, 1080, "16:9"},
		{1440, 900, "8:5"},
		{3024, 1964, "756:491"},
		{1024, 0, "1:0"},
		{0, 0, "0:0"},
	}
	for _, tt := range tests {
		m := Mode{Width: tt.w, Height: tt.h}
		if got := m.AspectRatio(); got != tt.want {
			t.Fatalf("%dx%d: expected %s, got %s", tt.w, tt.h, tt.want, got)
		}
	}
}

func TestMode_Kind(t *testing.T) {
	if got := (Mode{Scaled: true}).Kind(); got != "scaled" {
		t.Fatalf("expected scaled, got %s", got)
	}
	if got := (Mode{}).Kind(); got != "native" {
		t.Fatalf("expected native, got %s", got)
	}
}

func TestInfo_SetMirror(t *testing.T) {
	var info Info
	target := ID(4)
	info.SetMirror(&target)
	if !info.Mirror || info.MirrorOf == nil || *info.MirrorOf != 4 {
		t.Fatalf("expected mirror of 4, got %+v", info)
	}
	info.SetMirror(nil)
	if info.Mirror || info.MirrorOf != nil {
		t.Fatalf("expected mirroring cleared, got %+v", info)
	}
}

func TestGeometry_Empty(t *testing.T) {
	if !(Geometry{}).Empty() {
		t.Fatalf("expected zero geometry to be empty")
	}
	enabled := false
	if (Geometry{Enabled: &enabled}).Empty() {
		t.Fatalf("expected geometry with enabled set not to be empty")
	}
}

func TestScreenLabel(t *testing.T) {
	if got := screenLabel(true, 300, 200); got != "built in screen" {
		t.Fatalf("unexpected built-in label %q", got)
	}
	if got := screenLabel(false, 600, 340); got != "27 inch external screen" {
		t.Fatalf("unexpected external label %q", got)
	}
	if got := screenLabel(false, 0, 0); got != "external screen" {
		t.Fatalf("unexpected label for unknown size %q", got)
	}
}
