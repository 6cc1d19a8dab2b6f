package audio

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/stagehand/internal/domain/platform"
	"github.com/felixgeelhaar/stagehand/internal/ports"
)

type fakeRegistry struct {
	devices        []Device
	enumerateCalls int
	enumerateErr   error
	setEnabledErr  error
	enabled        []string
}

func (r *fakeRegistry) Enumerate(_ context.Context) ([]Device, error) {
	r.enumerateCalls++
	if r.enumerateErr != nil {
		return nil, r.enumerateErr
	}
	out := make([]Device, len(r.devices))
	copy(out, r.devices)
	return out, nil
}

func (r *fakeRegistry) SetEnabled(_ context.Context, name string, enabled bool) error {
	if r.setEnabledErr != nil {
		return r.setEnabledErr
	}
	r.enabled = append(r.enabled, name)
	for i := range r.devices {
		if r.devices[i].Name == name {
			r.devices[i].Enabled = enabled
		}
	}
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...ports.Field) {}
func (nopLogger) Info(context.Context, string, ...ports.Field)  {}
func (nopLogger) Warn(context.Context, string, ...ports.Field)  {}
func (nopLogger) Error(context.Context, string, ...ports.Field) {}
func (l nopLogger) With(...ports.Field) ports.Logger            { return l }
func (nopLogger) SetLevel(ports.Level)                          {}

func newConfigurator(reg Registry) *Configurator {
	return NewConfigurator(reg, platform.New(platform.OSWindows, "amd64"), nopLogger{})
}

func TestRun_AllClassesPresent(t *testing.T) {
	reg := &fakeRegistry{devices: []Device{
		{Name: "CABLE Output (VB-Audio Virtual Cable)", Kind: KindSystemLoopback, Enabled: true},
		{Name: "Stereo Mix (Realtek Audio)", Kind: KindSystemLoopback, Enabled: true},
		{Name: "Microphone (USB Audio)", Kind: KindMicrophone, Enabled: true},
	}}

	report := newConfigurator(reg).Run(context.Background())

	if report.FinalState != StateVerified {
		t.Errorf("FinalState = %s, want %s", report.FinalState, StateVerified)
	}
	if !report.Succeeded() {
		t.Error("verification should succeed with usable devices present")
	}
	if len(report.Remediation) != 0 {
		t.Error("no remediation expected when devices are usable")
	}
	if len(report.Detection.VirtualCables) != 1 || len(report.Detection.StereoMix) != 1 || len(report.Detection.Microphones) != 1 {
		t.Errorf("detection = %+v, want one device per class", report.Detection)
	}
}

func TestRun_VerifiedReachedForEveryClassCombination(t *testing.T) {
	cable := Device{Name: "BlackHole 2ch", Kind: KindSystemLoopback, Enabled: true}
	mix := Device{Name: "Stereo Mix", Kind: KindSystemLoopback, Enabled: true}
	mic := Device{Name: "Built-in Microphone", Kind: KindMicrophone, Enabled: true}

	for mask := 0; mask < 8; mask++ {
		devices := []Device{}
		if mask&1 != 0 {
			devices = append(devices, cable)
		}
		if mask&2 != 0 {
			devices = append(devices, mix)
		}
		if mask&4 != 0 {
			devices = append(devices, mic)
		}

		report := newConfigurator(&fakeRegistry{devices: devices}).Run(context.Background())
		if report.FinalState != StateVerified {
			t.Errorf("mask %d: FinalState = %s, want verified", mask, report.FinalState)
		}
		if len(devices) == 0 && report.Succeeded() {
			t.Errorf("mask %d: empty registry cannot succeed", mask)
		}
	}
}

func TestRun_ZeroDevicesEmitsFullRemediation(t *testing.T) {
	report := newConfigurator(&fakeRegistry{}).Run(context.Background())

	if report.Succeeded() {
		t.Fatal("no devices must not verify as success")
	}
	want := RemediationInstructions(platform.New(platform.OSWindows, "amd64"))
	if len(report.Remediation) != len(want) {
		t.Errorf("remediation len = %d, want the full set of %d instructions", len(report.Remediation), len(want))
	}
}

func TestRun_EnablesDisabledStereoMix(t *testing.T) {
	reg := &fakeRegistry{devices: []Device{
		{Name: "Stereo Mix (Realtek Audio)", Kind: KindSystemLoopback, Enabled: false},
	}}

	report := newConfigurator(reg).Run(context.Background())

	if len(reg.enabled) != 1 || reg.enabled[0] != "Stereo Mix (Realtek Audio)" {
		t.Fatalf("enabled = %v, want the disabled stereo mix device", reg.enabled)
	}
	if !report.Succeeded() {
		t.Error("verification must see the freshly enabled device")
	}
	if len(report.Attempts) != 1 || report.Attempts[0].Err != nil {
		t.Errorf("attempts = %+v, want one successful attempt", report.Attempts)
	}
}

func TestRun_DoesNotTouchEnabledOrNonMixDevices(t *testing.T) {
	reg := &fakeRegistry{devices: []Device{
		{Name: "Stereo Mix", Kind: KindSystemLoopback, Enabled: true},
		{Name: "CABLE Output (VB-Audio Virtual Cable)", Kind: KindSystemLoopback, Enabled: false},
		{Name: "Microphone", Kind: KindMicrophone, Enabled: false},
	}}

	report := newConfigurator(reg).Run(context.Background())

	if len(reg.enabled) != 0 {
		t.Errorf("enabled = %v, enablement targets disabled stereo-mix devices only", reg.enabled)
	}
	if len(report.Attempts) != 0 {
		t.Errorf("attempts = %+v, want none", report.Attempts)
	}
}

func TestRun_EnablementFailureIsNeverFatal(t *testing.T) {
	reg := &fakeRegistry{
		devices: []Device{
			{Name: "Stereo Mix", Kind: KindSystemLoopback, Enabled: false},
		},
		setEnabledErr: errors.New("access denied"),
	}

	report := newConfigurator(reg).Run(context.Background())

	if report.FinalState != StateVerified {
		t.Error("enablement failure must still reach verification")
	}
	if len(report.Warnings) == 0 {
		t.Error("enablement failure must be recorded as a warning")
	}
	if len(report.Remediation) == 0 {
		t.Error("unusable configuration must carry remediation instructions")
	}
}

func TestRun_EnumerationFailureIsNeverFatal(t *testing.T) {
	reg := &fakeRegistry{enumerateErr: errors.New("registry unavailable")}

	report := newConfigurator(reg).Run(context.Background())

	if report.FinalState != StateVerified {
		t.Error("enumeration failure must still reach verification")
	}
	if len(report.Warnings) == 0 {
		t.Error("enumeration failure must be recorded")
	}
	if len(report.Remediation) == 0 {
		t.Error("remediation must be emitted when verification cannot run")
	}
}

func TestRun_VerificationRequeriesRegistry(t *testing.T) {
	reg := &fakeRegistry{devices: []Device{
		{Name: "Microphone", Kind: KindMicrophone, Enabled: true},
	}}

	newConfigurator(reg).Run(context.Background())

	if reg.enumerateCalls != 2 {
		t.Errorf("enumerate calls = %d, want 2 (detection plus fresh verification)", reg.enumerateCalls)
	}
}

func TestDeviceClassification(t *testing.T) {
	tests := []struct {
		name    string
		cable   bool
		mix     bool
	}{
		{"CABLE Output (VB-Audio Virtual Cable)", true, false},
		{"BlackHole 2ch", true, false},
		{"Stereo Mix (Realtek(R) Audio)", false, true},
		{"What U Hear", false, true},
		{"Microphone Array", false, false},
	}
	for _, tt := range tests {
		if got := IsVirtualCable(tt.name); got != tt.cable {
			t.Errorf("IsVirtualCable(%q) = %v, want %v", tt.name, got, tt.cable)
		}
		if got := IsStereoMix(tt.name); got != tt.mix {
			t.Errorf("IsStereoMix(%q) = %v, want %v", tt.name, got, tt.mix)
		}
	}
}
