package input

import (
	"github.com/Carmen-Shannon/oxy-fps/common"
	"github.com/sirupsen/logrus"
)

// SamplerOption is a functional option for configuring a Sampler.
type SamplerOption func(*samplerImpl)

// WithDeviceSource attaches the sampler to a shared device source. The sampler never closes it.
//
// Parameters:
//   - source: the borrowed device source
//
// Returns:
//   - SamplerOption: option function to apply
func WithDeviceSource(source DeviceSource) SamplerOption {
	return func(s *samplerImpl) {
		s.source = source
		s.ownsSource = false
	}
}

// WithOwnedDeviceSource attaches the sampler to a device source it takes ownership of.
// Dispose closes the source.
//
// Parameters:
//   - source: the owned device source
//
// Returns:
//   - SamplerOption: option function to apply
func WithOwnedDeviceSource(source DeviceSource) SamplerOption {
	return func(s *samplerImpl) {
		s.source = source
		s.ownsSource = true
	}
}

// WithKeyBinding overrides the default trigger key of one digital axis.
//
// Parameters:
//   - axis: the digital axis
//   - key: textual key identifier
//
// Returns:
//   - SamplerOption: option function to apply
func WithKeyBinding(axis Axis, key string) SamplerOption {
	return func(s *samplerImpl) {
		if axis.Digital() {
			s.bindings[axis] = common.NormalizeKey(key)
		}
	}
}

// WithKeyBindings overrides several bindings at once. Axes missing from the map keep their
// default key.
//
// Parameters:
//   - bindings: axis to key identifier
//
// Returns:
//   - SamplerOption: option function to apply
func WithKeyBindings(bindings map[Axis]string) SamplerOption {
	return func(s *samplerImpl) {
		for axis, key := range bindings {
			if axis.Digital() {
				s.bindings[axis] = common.NormalizeKey(key)
			}
		}
	}
}

// WithLogger sets the logger used for device and binding diagnostics.
//
// Parameters:
//   - log: the logger
//
// Returns:
//   - SamplerOption: option function to apply
func WithLogger(log logrus.FieldLogger) SamplerOption {
	return func(s *samplerImpl) {
		if log != nil {
			s.log = log
		}
	}
}
