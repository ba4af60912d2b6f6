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
	"bytes"
	"fmt"
	"io"
	"time"

	"goarrg.com/debug"
	"goarrg.com/gmath"
	"github.com/pelletier/go-toml/v2"

	"goarrg.com/rhi/vez/internal/stream"
)

const (
	DefaultStagingBufferSize      = 128 << 20
	DefaultFenceSweepPeriod       = 3
	DefaultRenderPassSweepPeriod  = 5000
	DefaultDescriptorPoolPageSize = 64
	DefaultPresentRingSize        = 3
	DefaultFenceTimeout           = 10 * time.Second
)

/*
DeviceConfig tunes the internal allocations of a Device, zero fields take the
defaults above.
*/
type DeviceConfig struct {
	// StreamPageSize is the page size in bytes of every command stream.
	StreamPageSize int `toml:"stream_page_size"`
	// StagingBufferSize bounds a single host to device transfer window.
	StagingBufferSize uint64 `toml:"staging_buffer_size"`
	// FenceSweepPeriod is the number of tracked submissions between two sweeps
	// of completed fences.
	FenceSweepPeriod uint32 `toml:"fence_sweep_period"`
	// RenderPassSweepPeriod is the number of tracked submissions between two
	// sweeps of unreferenced render passes.
	RenderPassSweepPeriod uint32 `toml:"render_pass_sweep_period"`
	// DescriptorPoolPageSize is the max sets of one descriptor pool page.
	DescriptorPoolPageSize uint32 `toml:"descriptor_pool_page_size"`
	// PresentRingSize is the number of present helper command buffers per queue.
	PresentRingSize uint32 `toml:"present_ring_size"`
	// FenceTimeout bounds internal fence waits.
	FenceTimeout time.Duration `toml:"-"`
	// FenceTimeoutMS is FenceTimeout as read from a config file.
	FenceTimeoutMS int64 `toml:"fence_timeout_ms"`
}

/*
LoadDeviceConfig parses a TOML document over the defaults, unknown keys are an
error.
*/
func LoadDeviceConfig(r io.Reader) (DeviceConfig, error) {
	c := DeviceConfig{}
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&c); err != nil {
		return DeviceConfig{}, debug.ErrorWrapf(err, "Failed to decode device config")
	}
	if c.FenceTimeoutMS != 0 {
		c.FenceTimeout = time.Duration(c.FenceTimeoutMS) * time.Millisecond
	}
	c.applyDefaults()
	if err := c.validate(); err != nil {
		return DeviceConfig{}, err
	}
	return c, nil
}

func (c *DeviceConfig) applyDefaults() {
	if c.StreamPageSize == 0 {
		c.StreamPageSize = stream.DefaultPageSize
	}
	if c.StagingBufferSize == 0 {
		c.StagingBufferSize = DefaultStagingBufferSize
	}
	if c.FenceSweepPeriod == 0 {
		c.FenceSweepPeriod = DefaultFenceSweepPeriod
	}
	if c.RenderPassSweepPeriod == 0 {
		c.RenderPassSweepPeriod = DefaultRenderPassSweepPeriod
	}
	if c.DescriptorPoolPageSize == 0 {
		c.DescriptorPoolPageSize = DefaultDescriptorPoolPageSize
	}
	if c.PresentRingSize == 0 {
		c.PresentRingSize = DefaultPresentRingSize
	}
	if c.FenceTimeout == 0 {
		c.FenceTimeout = DefaultFenceTimeout
	}
}

func (c *DeviceConfig) validate() error {
	invalid := func(msg string) error {
		instance.logger.EPrintf("DeviceConfig.%s", msg)
		return ErrorBadArgument
	}
	if c.StreamPageSize < 256 {
		return invalid("StreamPageSize must be >= 256")
	}
	if c.StagingBufferSize < 256 {
		return invalid("StagingBufferSize must be >= 256")
	}
	if !gmath.InRange(c.PresentRingSize, 1, 16) {
		return invalid("PresentRingSize must be in [1, 16]")
	}
	if c.FenceTimeout < 0 {
		return invalid("FenceTimeout must be >= 0")
	}
	return nil
}

func (c *DeviceConfig) MarshalJSON() ([]byte, error) {
	buff := bytes.Buffer{}
	buff.WriteString("{")

	buff.WriteString(fmt.Sprintf("\"StreamPageSize\": %d,", c.StreamPageSize))
	buff.WriteString(fmt.Sprintf("\"StagingBufferSize\": %d,", c.StagingBufferSize))
	buff.WriteString(fmt.Sprintf("\"FenceSweepPeriod\": %d,", c.FenceSweepPeriod))
	buff.WriteString(fmt.Sprintf("\"RenderPassSweepPeriod\": %d,", c.RenderPassSweepPeriod))
	buff.WriteString(fmt.Sprintf("\"DescriptorPoolPageSize\": %d,", c.DescriptorPoolPageSize))
	buff.WriteString(fmt.Sprintf("\"PresentRingSize\": %d,", c.PresentRingSize))
	buff.WriteString(fmt.Sprintf("\"FenceTimeout\": %q", c.FenceTimeout.String()))

	buff.WriteString("}")
	return buff.Bytes(), nil
}
