package devices

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/stagehand/internal/domain/audio"
	"github.com/felixgeelhaar/stagehand/internal/ports"
)

type fakeRunner struct {
	calls   []string
	results map[string]ports.CommandResult
}

func (r *fakeRunner) Run(_ context.Context, command string, args ...string) (ports.CommandResult, error) {
	key := command
	if len(args) > 0 {
		key = command + " " + args[len(args)-1]
	}
	r.calls = append(r.calls, key)
	if res, ok := r.results[key]; ok {
		return res, nil
	}
	return ports.CommandResult{ExitCode: 0}, nil
}

func TestWindowsEnumerate_ParsesArray(t *testing.T) {
	runner := &fakeRunner{results: map[string]ports.CommandResult{
		"powershell " + listEndpointsScript: {
			ExitCode: 0,
			Stdout:   `[{"FriendlyName":"Stereo Mix (Realtek(R) Audio)","Status":"Error","InstanceId":"SWD\\MMDEVAPI\\1"},{"FriendlyName":"Microphone (USB Audio)","Status":"OK","InstanceId":"SWD\\MMDEVAPI\\2"}]`,
		},
	}}

	devices, err := NewWindowsRegistry(runner).Enumerate(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 2)

	assert.Equal(t, audio.KindSystemLoopback, devices[0].Kind)
	assert.False(t, devices[0].Enabled)
	assert.Equal(t, audio.KindMicrophone, devices[1].Kind)
	assert.True(t, devices[1].Enabled)
}

func TestWindowsEnumerate_ParsesSingleObject(t *testing.T) {
	runner := &fakeRunner{results: map[string]ports.CommandResult{
		"powershell " + listEndpointsScript: {
			ExitCode: 0,
			Stdout:   `{"FriendlyName":"Microphone Array","Status":"OK","InstanceId":"SWD\\MMDEVAPI\\3"}`,
		},
	}}

	devices, err := NewWindowsRegistry(runner).Enumerate(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "Microphone Array", devices[0].Name)
}

func TestWindowsSetEnabled_QuotesName(t *testing.T) {
	runner := &fakeRunner{}
	err := NewWindowsRegistry(runner).SetEnabled(context.Background(), "Bob's Mix", true)
	require.NoError(t, err)
	require.Len(t, runner.calls, 1)
	assert.Contains(t, runner.calls[0], "'Bob''s Mix'")
	assert.Contains(t, runner.calls[0], "Enable-PnpDevice")
}

func TestDarwinEnumerate_InputDevicesOnly(t *testing.T) {
	runner := &fakeRunner{results: map[string]ports.CommandResult{
		"system_profiler -json": {
			ExitCode: 0,
			Stdout: `{"SPAudioDataType":[{"_items":[
				{"_name":"MacBook Pro Microphone","coreaudio_device_input":1},
				{"_name":"MacBook Pro Speakers","coreaudio_device_input":0},
				{"_name":"BlackHole 2ch","coreaudio_device_input":2}
			]}]}`,
		},
	}}

	devices, err := NewDarwinRegistry(runner).Enumerate(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 2)

	assert.Equal(t, audio.KindMicrophone, devices[0].Kind)
	assert.Equal(t, audio.KindSystemLoopback, devices[1].Kind)
	assert.True(t, devices[1].Enabled)
}

func TestDarwinSetEnabled_Unsupported(t *testing.T) {
	err := NewDarwinRegistry(&fakeRunner{}).SetEnabled(context.Background(), "BlackHole 2ch", true)
	assert.ErrorIs(t, err, ErrEnablementUnsupported)
}
