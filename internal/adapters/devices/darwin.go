package devices

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/stagehand/internal/domain/audio"
	"github.com/felixgeelhaar/stagehand/internal/ports"
)

// ErrEnablementUnsupported is returned on platforms whose registry has no
// per-device enablement flag. The configurator downgrades it to a warning.
var ErrEnablementUnsupported = errors.New("device enablement is not supported on this platform")

// DarwinRegistry reads CoreAudio devices through system_profiler.
type DarwinRegistry struct {
	runner ports.CommandRunner
}

// NewDarwinRegistry creates a macOS device registry.
func NewDarwinRegistry(runner ports.CommandRunner) *DarwinRegistry {
	return &DarwinRegistry{runner: runner}
}

// audioProfile mirrors the system_profiler SPAudioDataType JSON shape.
type audioProfile struct {
	SPAudioDataType []struct {
		Items []struct {
			Name          string `json:"_name"`
			InputChannels int    `json:"coreaudio_device_input"`
		} `json:"_items"`
	} `json:"SPAudioDataType"`
}

// Enumerate lists CoreAudio input devices. macOS inputs have no
// enablement flag, so every input device reports as enabled.
func (r *DarwinRegistry) Enumerate(ctx context.Context) ([]audio.Device, error) {
	result, err := r.runner.Run(ctx, "system_profiler", "SPAudioDataType", "-json")
	if err != nil {
		return nil, fmt.Errorf("querying audio devices: %w", err)
	}
	if !result.Success() {
		return nil, fmt.Errorf("querying audio devices: %s", strings.TrimSpace(result.Stderr))
	}

	var profile audioProfile
	if err := json.Unmarshal([]byte(result.Stdout), &profile); err != nil {
		return nil, fmt.Errorf("parsing device list: %w", err)
	}

	devices := make([]audio.Device, 0)
	for _, section := range profile.SPAudioDataType {
		for _, item := range section.Items {
			if item.InputChannels <= 0 {
				continue
			}
			kind := audio.KindMicrophone
			if audio.IsVirtualCable(item.Name) || audio.IsStereoMix(item.Name) {
				kind = audio.KindSystemLoopback
			}
			devices = append(devices, audio.Device{
				Name:    item.Name,
				Kind:    kind,
				Enabled: true,
			})
		}
	}
	return devices, nil
}

// SetEnabled is not supported by CoreAudio.
func (r *DarwinRegistry) SetEnabled(_ context.Context, _ string, _ bool) error {
	return ErrEnablementUnsupported
}

// Ensure DarwinRegistry implements audio.Registry.
var _ audio.Registry = (*DarwinRegistry)(nil)
