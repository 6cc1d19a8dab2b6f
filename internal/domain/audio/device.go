// Package audio implements the audio-device configuration state machine:
// detection, best-effort enablement and verification of input devices.
package audio

import (
	"context"
	"strings"
)

// Kind classifies an audio input device.
type Kind string

const (
	// KindMicrophone is a physical microphone input.
	KindMicrophone Kind = "microphone"
	// KindSystemLoopback captures the machine's own output (stereo mix,
	// virtual cable). Required for dual-channel capture alongside a mic.
	KindSystemLoopback Kind = "system-loopback"
	// KindUnknown is a device the registry could not classify.
	KindUnknown Kind = "unknown"
)

// Device is one entry from the platform's device registry. The record is
// re-derived by re-querying; it is never trusted stale, because Enablement
// mutates platform state, not this in-memory value.
type Device struct {
	Name    string
	Kind    Kind
	Enabled bool
}

// Usable reports whether the device can serve as a capture input.
func (d Device) Usable() bool {
	return d.Enabled && d.Kind != KindUnknown
}

// Registry is the queryable/mutable platform device registry.
type Registry interface {
	// Enumerate lists input devices with name, class and enablement.
	Enumerate(ctx context.Context) ([]Device, error)

	// SetEnabled flips the enablement flag of a named device.
	SetEnabled(ctx context.Context, name string, enabled bool) error
}

// virtualCableMarkers identify third-party loopback drivers.
var virtualCableMarkers = []string{
	"vb-audio", "cable output", "cable input", "blackhole", "soundflower",
}

// stereoMixMarkers identify OS-native loopback devices.
var stereoMixMarkers = []string{
	"stereo mix", "stereomix", "what u hear", "wave out mix", "loopback",
}

// IsVirtualCable reports whether the device name belongs to an installed
// virtual loopback cable driver.
func IsVirtualCable(name string) bool {
	return matchesAny(name, virtualCableMarkers)
}

// IsStereoMix reports whether the device name is an OS-native stereo-mix
// style loopback.
func IsStereoMix(name string) bool {
	if IsVirtualCable(name) {
		return false
	}
	return matchesAny(name, stereoMixMarkers)
}

func matchesAny(name string, markers []string) bool {
	lower := strings.ToLower(name)
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
