package audio

import (
	"github.com/felixgeelhaar/stagehand/internal/domain/platform"
)

// RemediationInstructions is the fixed manual-fix guidance emitted when
// enablement fails or verification finds no usable input device.
func RemediationInstructions(plat *platform.Platform) []string {
	if plat != nil && plat.IsWindows() {
		return []string{
			"Right-click the speaker icon and open Sound settings > Sound Control Panel > Recording.",
			"Right-click inside the device list and tick 'Show Disabled Devices'.",
			"If 'Stereo Mix' appears, right-click it and choose Enable, then set it as a recording device.",
			"If 'Stereo Mix' is missing, install the VB-CABLE virtual audio device from https://vb-audio.com/Cable/ and reboot.",
			"Plug in or enable at least one microphone and confirm it shows a level meter when you speak.",
			"Re-run 'stagehand audio' to verify the configuration.",
		}
	}
	return []string{
		"Install the BlackHole loopback driver: brew install blackhole-2ch.",
		"Open Audio MIDI Setup and create a Multi-Output Device combining your speakers and BlackHole.",
		"Open Audio MIDI Setup and create an Aggregate Device combining your microphone and BlackHole.",
		"Grant microphone access in System Settings > Privacy & Security > Microphone.",
		"Re-run 'stagehand audio' to verify the configuration.",
	}
}
