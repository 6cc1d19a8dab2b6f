// Package devices provides platform device registry adapters. Both
// platforms are driven through the external CommandRunner seam, so the
// adapters compile and test everywhere.
package devices

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/stagehand/internal/domain/audio"
	"github.com/felixgeelhaar/stagehand/internal/ports"
)

// WindowsRegistry reads and mutates audio endpoints through PowerShell.
type WindowsRegistry struct {
	runner ports.CommandRunner
}

// NewWindowsRegistry creates a Windows device registry.
func NewWindowsRegistry(runner ports.CommandRunner) *WindowsRegistry {
	return &WindowsRegistry{runner: runner}
}

// pnpDevice mirrors the PowerShell Get-PnpDevice JSON shape.
type pnpDevice struct {
	FriendlyName string `json:"FriendlyName"`
	Status       string `json:"Status"`
	InstanceID   string `json:"InstanceId"`
}

const listEndpointsScript = `Get-PnpDevice -Class AudioEndpoint | Select-Object FriendlyName,Status,InstanceId | ConvertTo-Json -Compress`

// Enumerate lists audio endpoints with their enablement status.
func (r *WindowsRegistry) Enumerate(ctx context.Context) ([]audio.Device, error) {
	result, err := r.runner.Run(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command", listEndpointsScript)
	if err != nil {
		return nil, fmt.Errorf("querying audio endpoints: %w", err)
	}
	if !result.Success() {
		return nil, fmt.Errorf("querying audio endpoints: %s", strings.TrimSpace(result.Stderr))
	}

	raw, err := parsePnpJSON(result.Stdout)
	if err != nil {
		return nil, err
	}

	devices := make([]audio.Device, 0, len(raw))
	for _, d := range raw {
		devices = append(devices, audio.Device{
			Name:    d.FriendlyName,
			Kind:    classify(d.FriendlyName),
			Enabled: strings.EqualFold(d.Status, "OK"),
		})
	}
	return devices, nil
}

// SetEnabled enables or disables a named endpoint.
func (r *WindowsRegistry) SetEnabled(ctx context.Context, name string, enabled bool) error {
	verb := "Enable-PnpDevice"
	if !enabled {
		verb = "Disable-PnpDevice"
	}
	// Single quotes in device names are doubled for PowerShell quoting.
	quoted := strings.ReplaceAll(name, "'", "''")
	script := fmt.Sprintf(`Get-PnpDevice -Class AudioEndpoint -FriendlyName '%s' | %s -Confirm:$false`, quoted, verb)

	result, err := r.runner.Run(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command", script)
	if err != nil {
		return fmt.Errorf("toggling %s: %w", name, err)
	}
	if !result.Success() {
		return fmt.Errorf("toggling %s: %s", name, strings.TrimSpace(result.Stderr))
	}
	return nil
}

// parsePnpJSON tolerates PowerShell's habit of emitting a bare object for
// single-element results.
func parsePnpJSON(out string) ([]pnpDevice, error) {
	trimmed := strings.TrimSpace(out)
	if trimmed == "" {
		return nil, nil
	}

	var list []pnpDevice
	if err := json.Unmarshal([]byte(trimmed), &list); err == nil {
		return list, nil
	}

	var single pnpDevice
	if err := json.Unmarshal([]byte(trimmed), &single); err != nil {
		return nil, fmt.Errorf("parsing device list: %w", err)
	}
	return []pnpDevice{single}, nil
}

func classify(name string) audio.Kind {
	lower := strings.ToLower(name)
	switch {
	case audio.IsVirtualCable(name) || audio.IsStereoMix(name):
		return audio.KindSystemLoopback
	case strings.Contains(lower, "microphone") || strings.Contains(lower, "mic "):
		return audio.KindMicrophone
	default:
		return audio.KindUnknown
	}
}

// Ensure WindowsRegistry implements audio.Registry.
var _ audio.Registry = (*WindowsRegistry)(nil)
