package devices

import (
	"context"

	"github.com/felixgeelhaar/stagehand/internal/domain/audio"
	"github.com/felixgeelhaar/stagehand/internal/domain/platform"
	"github.com/felixgeelhaar/stagehand/internal/ports"
)

// ForPlatform returns the device registry for the detected platform.
func ForPlatform(plat *platform.Platform, runner ports.CommandRunner) audio.Registry {
	switch {
	case plat.IsWindows():
		return NewWindowsRegistry(runner)
	case plat.IsMacOS():
		return NewDarwinRegistry(runner)
	default:
		return emptyRegistry{}
	}
}

// emptyRegistry serves unsupported platforms: no devices, no mutation.
type emptyRegistry struct{}

func (emptyRegistry) Enumerate(_ context.Context) ([]audio.Device, error) {
	return nil, nil
}

func (emptyRegistry) SetEnabled(_ context.Context, _ string, _ bool) error {
	return ErrEnablementUnsupported
}
