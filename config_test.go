/*
Copyright 2025 The goARRG Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package vez

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goarrg.com/rhi/vez/internal/stream"
	"goarrg.com/rhi/vez/native/nativetest"
)

func TestLoadDeviceConfig(t *testing.T) {
	c, err := LoadDeviceConfig(strings.NewReader(`
staging_buffer_size = 4096
fence_timeout_ms = 250
present_ring_size = 2
`))
	require.NoError(t, err)
	assert.Equal(t, uint64(4096), c.StagingBufferSize)
	assert.Equal(t, 250*time.Millisecond, c.FenceTimeout)
	assert.Equal(t, uint32(2), c.PresentRingSize)

	assert.Equal(t, stream.DefaultPageSize, c.StreamPageSize)
	assert.Equal(t, uint32(DefaultFenceSweepPeriod), c.FenceSweepPeriod)
	assert.Equal(t, uint32(DefaultRenderPassSweepPeriod), c.RenderPassSweepPeriod)
	assert.Equal(t, uint32(DefaultDescriptorPoolPageSize), c.DescriptorPoolPageSize)

	b, err := json.Marshal(&c)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"FenceTimeout":"250ms"`)
}

func TestLoadDeviceConfigDefaults(t *testing.T) {
	c, err := LoadDeviceConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, uint64(DefaultStagingBufferSize), c.StagingBufferSize)
	assert.Equal(t, DefaultFenceTimeout, c.FenceTimeout)
	assert.Equal(t, uint32(DefaultPresentRingSize), c.PresentRingSize)
}

func TestLoadDeviceConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"UnknownKey", "staging_size = 4096"},
		{"WrongType", `present_ring_size = "three"`},
		{"Syntax", "present_ring_size = "},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadDeviceConfig(strings.NewReader(tc.doc))
			assert.Error(t, err)
		})
	}
}

func TestDeviceConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		config DeviceConfig
		valid  bool
	}{
		{"Zero", DeviceConfig{}, true},
		{"SmallPage", DeviceConfig{StreamPageSize: 128}, false},
		{"SmallStaging", DeviceConfig{StagingBufferSize: 64}, false},
		{"MinStaging", DeviceConfig{StagingBufferSize: 256}, true},
		{"RingTooLarge", DeviceConfig{PresentRingSize: 17}, false},
		{"RingMax", DeviceConfig{PresentRingSize: 16}, true},
		{"NegativeTimeout", DeviceConfig{FenceTimeout: -time.Second}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := tc.config
			c.applyDefaults()
			err := c.validate()
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrorBadArgument)
			}
		})
	}

	_, err := LoadDeviceConfig(strings.NewReader("present_ring_size = 32"))
	assert.ErrorIs(t, err, ErrorBadArgument)
}

func TestDeviceConfigApplied(t *testing.T) {
	e := newTestEnvWith(t, nativetest.DefaultConfig(), DeviceConfig{StagingBufferSize: 1024})
	c := e.device.Config()
	assert.Equal(t, uint64(1024), c.StagingBufferSize)
	assert.Equal(t, uint32(DefaultFenceSweepPeriod), c.FenceSweepPeriod)
}
