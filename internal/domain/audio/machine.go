package audio

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/stagehand/internal/domain/platform"
	"github.com/felixgeelhaar/stagehand/internal/ports"
)

// State names the phases of the device configuration state machine.
type State string

const (
	// StateUnprobed is the initial state; nothing is known yet.
	StateUnprobed State = "unprobed"
	// StateDetected holds the device snapshot from the registry query.
	StateDetected State = "detected"
	// StateEnablementAttempted follows the best-effort enables.
	StateEnablementAttempted State = "enablement_attempted"
	// StateVerified is the terminal state, reached even on partial
	// success: verification always runs and always reports.
	StateVerified State = "verified"
)

// Events driving the state machine.
const (
	EventDetected  = "DETECTED"
	EventAttempted = "ATTEMPTED"
	EventVerified  = "VERIFIED"
)

// buildMachine constructs the four-state configuration machine.
func buildMachine() (*statekit.Interpreter[Report], error) {
	machine, err := statekit.NewMachine[Report]("audio-config").
		WithInitial(statekit.StateID(StateUnprobed)).
		WithContext(Report{}).
		State(statekit.StateID(StateUnprobed)).
		On(EventDetected).Target(statekit.StateID(StateDetected)).Done().
		State(statekit.StateID(StateDetected)).
		On(EventAttempted).Target(statekit.StateID(StateEnablementAttempted)).Done().
		State(statekit.StateID(StateEnablementAttempted)).
		On(EventVerified).Target(statekit.StateID(StateVerified)).Done().
		State(statekit.StateID(StateVerified)).Done().
		Build()
	if err != nil {
		return nil, err
	}
	return statekit.NewInterpreter(machine), nil
}

// Configurator runs detection, enablement and verification against the
// platform device registry. It is invokable standalone (diagnostic mode)
// or as the final phase of a full installation run; in both cases it runs
// all four states in order and never aborts the host process.
type Configurator struct {
	registry Registry
	platform *platform.Platform
	logger   ports.Logger
}

// NewConfigurator creates a device configurator.
func NewConfigurator(registry Registry, plat *platform.Platform, logger ports.Logger) *Configurator {
	return &Configurator{
		registry: registry,
		platform: plat,
		logger:   logger,
	}
}

// Run drives the machine Unprobed → Detected → EnablementAttempted →
// Verified and returns the complete report. It never returns an error:
// every failure is downgraded to a warning plus remediation guidance.
func (c *Configurator) Run(ctx context.Context) Report {
	report := Report{}

	interp, err := buildMachine()
	if err != nil {
		// Machine construction is static; failure here is a programming
		// error, but the contract still holds: report, don't abort.
		report.Warnings = append(report.Warnings, fmt.Sprintf("state machine unavailable: %v", err))
		report.Remediation = RemediationInstructions(c.platform)
		report.FinalState = StateVerified
		return report
	}
	interp.Start()
	defer interp.Stop()

	report.Detection = c.detect(ctx, &report)
	interp.Send(statekit.Event{Type: EventDetected})

	report.Attempts = c.attemptEnablement(ctx, report.Detection, &report)
	interp.Send(statekit.Event{Type: EventAttempted})

	c.verify(ctx, &report)
	interp.Send(statekit.Event{Type: EventVerified})

	report.FinalState = State(interp.State().Value)
	return report
}

// detect queries the registry once and classifies every device into the
// three classes. Each class is checked independently.
func (c *Configurator) detect(ctx context.Context, report *Report) Detection {
	detection := Detection{}

	devices, err := c.registry.Enumerate(ctx)
	if err != nil {
		c.logger.Warn(ctx, "device enumeration failed", ports.F("error", err.Error()))
		report.Warnings = append(report.Warnings, fmt.Sprintf("could not enumerate audio devices: %v", err))
		return detection
	}

	for _, d := range devices {
		switch {
		case IsVirtualCable(d.Name):
			detection.VirtualCables = append(detection.VirtualCables, d)
		case IsStereoMix(d.Name):
			detection.StereoMix = append(detection.StereoMix, d)
		case d.Kind == KindMicrophone:
			detection.Microphones = append(detection.Microphones, d)
		}
	}

	c.logger.Info(ctx, "audio devices detected",
		ports.F("virtual_cables", len(detection.VirtualCables)),
		ports.F("stereo_mix", len(detection.StereoMix)),
		ports.F("microphones", len(detection.Microphones)))
	return detection
}

// attemptEnablement flips disabled-but-present stereo-mix devices on.
// Absence of the device, or failure to mutate it, is never fatal.
func (c *Configurator) attemptEnablement(ctx context.Context, detection Detection, report *Report) []EnablementAttempt {
	attempts := make([]EnablementAttempt, 0)

	for _, d := range detection.StereoMix {
		if d.Enabled {
			continue
		}
		err := c.registry.SetEnabled(ctx, d.Name, true)
		attempts = append(attempts, EnablementAttempt{Device: d.Name, Err: err})
		if err != nil {
			c.logger.Warn(ctx, "could not enable device", ports.F("device", d.Name), ports.F("error", err.Error()))
			report.Warnings = append(report.Warnings, fmt.Sprintf("could not enable %s: %v", d.Name, err))
		} else {
			c.logger.Info(ctx, "device enabled", ports.F("device", d.Name))
		}
	}

	return attempts
}

// verify re-queries the registry, never the Detected snapshot, and
// classifies the result. Zero usable inputs emits the full remediation
// instruction set as the terminal output of this sub-pipeline.
func (c *Configurator) verify(ctx context.Context, report *Report) {
	devices, err := c.registry.Enumerate(ctx)
	if err != nil {
		c.logger.Warn(ctx, "verification query failed", ports.F("error", err.Error()))
		report.Warnings = append(report.Warnings, fmt.Sprintf("could not verify audio devices: %v", err))
		report.Remediation = RemediationInstructions(c.platform)
		return
	}

	for _, d := range devices {
		if d.Usable() {
			report.Usable = append(report.Usable, d)
		}
	}

	if len(report.Usable) == 0 {
		report.Remediation = RemediationInstructions(c.platform)
	}
}
