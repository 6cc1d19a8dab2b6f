package platform

import (
	"runtime"
	"testing"
)

func TestDetect_CurrentPlatform(t *testing.T) {
	SetTestPlatform(nil)
	p, err := Detect()
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if p.Arch() != runtime.GOARCH {
		t.Errorf("Arch() = %q, want %q", p.Arch(), runtime.GOARCH)
	}
	if string(p.OS()) != runtime.GOOS && p.OS() != OSUnknown {
		t.Errorf("OS() = %q, want %q", p.OS(), runtime.GOOS)
	}
}

func TestSetTestPlatform(t *testing.T) {
	mock := New(OSWindows, "amd64").WithElevated(true).WithFreeBytes(1 << 30)
	SetTestPlatform(mock)
	defer SetTestPlatform(nil)

	p, err := Detect()
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if !p.IsWindows() {
		t.Error("expected Windows mock platform")
	}
	if !p.Elevated() {
		t.Error("expected elevated mock platform")
	}
	if p.FreeBytes() != 1<<30 {
		t.Errorf("FreeBytes() = %d, want %d", p.FreeBytes(), 1<<30)
	}
}

func TestSupported(t *testing.T) {
	tests := []struct {
		os   OS
		want bool
	}{
		{OSWindows, true},
		{OSDarwin, true},
		{OSLinux, false},
		{OSUnknown, false},
	}
	for _, tt := range tests {
		p := New(tt.os, "amd64")
		if got := p.Supported(); got != tt.want {
			t.Errorf("Supported() for %s = %v, want %v", tt.os, got, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	p := New(OSDarwin, "arm64")
	if got := p.String(); got != "darwin/arm64" {
		t.Errorf("String() = %q, want %q", got, "darwin/arm64")
	}
}
