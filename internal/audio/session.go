package audio

import (
	"context"
	"fmt"
)

// Session carries the client-supplied parameters of one record-then-transcribe cycle.
type Session struct {
	InputDevice    string
	SampleRateHint uint32
	Prompt         string
	Model          string
}

// SupportedConfig is a device paired with the native stream configuration
// talkd will open the capture stream at.
type SupportedConfig struct {
	Device     Device
	SampleRate uint32
	Channels   uint8
}

const minFallbackSampleRate = 16000

// SupportedConfigs resolves the set of (device, config) candidates for a
// session: every device matching InputDevice (every device when it is
// empty, in enumeration order) whose native sample rate fits the session.
//
// PulseAudio sources advertise a single native sample format rather than a
// range of supported configs (unlike enumeration APIs that expose a
// continuous range per device); the "range" collapses to that single point.
// With a SampleRateHint the native rate must equal the hint; without one,
// any native rate of at least 16000 is accepted.
func SupportedConfigs(ctx context.Context, session Session) ([]SupportedConfig, error) {
	devices, err := ListDevices(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate devices: %w", err)
	}
	return filterSupportedConfigs(devices, session), nil
}

// filterSupportedConfigs applies the device-name and sample-rate filter
// against a pre-fetched device list.
func filterSupportedConfigs(devices []Device, session Session) []SupportedConfig {
	desired := session.SampleRateHint
	if desired == 0 {
		desired = minFallbackSampleRate
	}

	var configs []SupportedConfig
	for _, dev := range devices {
		if session.InputDevice != "" && !deviceMatches(dev, session.InputDevice) {
			continue
		}
		if dev.SampleRate == 0 {
			continue
		}
		if session.SampleRateHint == 0 {
			if dev.SampleRate < minFallbackSampleRate {
				continue
			}
		} else if dev.SampleRate != desired {
			continue
		}
		configs = append(configs, SupportedConfig{
			Device:     dev,
			SampleRate: dev.SampleRate,
			Channels:   dev.Channels,
		})
	}

	return configs
}
