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

/*
Package nativetest is an in-memory native backend. It hands out handles, keeps
host copies of every allocation, records commands per command buffer and executes
transfer commands on submit, so tests can observe exactly what the façade emitted.
*/
package nativetest

import (
	"sync"

	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/vk"
)

type Config struct {
	Properties          native.PhysicalDeviceProperties
	QueueFamilies       []native.QueueFamilyProperties
	SurfaceCapabilities native.SurfaceCapabilities
	SurfaceFormats      []vk.SurfaceFormat
	PresentModes        []vk.PresentMode
	// UnsupportedSurfaces are reported as not presentable from any family.
	UnsupportedSurfaces []native.Surface
}

/*
DefaultConfig describes one discrete GPU with a universal queue family, a compute
only family and a transfer only family.
*/
func DefaultConfig() Config {
	return Config{
		Properties: native.PhysicalDeviceProperties{
			APIVersion: 1<<22 | 3<<12,
			VendorID:   0x1234,
			DeviceID:   0x5678,
			Type:       vk.PhysicalDeviceTypeDiscreteGPU,
			Name:       "nativetest",
			Limits: native.PhysicalDeviceLimits{
				MaxImageDimension1D:              16384,
				MaxImageDimension2D:              16384,
				MaxImageDimension3D:              2048,
				MaxImageDimensionCube:            16384,
				MaxImageArrayLayers:              2048,
				MaxBoundDescriptorSets:           8,
				MaxPushConstantsSize:             256,
				MaxColorAttachments:              8,
				MaxViewports:                     16,
				NonCoherentAtomSize:              64,
				MinUniformBufferOffsetAlignment:  256,
				MinStorageBufferOffsetAlignment:  16,
				OptimalBufferCopyOffsetAlignment: 4,
				TimestampPeriod:                  1,
				FramebufferColorSampleCounts:     vk.SampleCount1Bit | vk.SampleCount2Bit | vk.SampleCount4Bit | vk.SampleCount8Bit,
				FramebufferDepthSampleCounts:     vk.SampleCount1Bit | vk.SampleCount2Bit | vk.SampleCount4Bit | vk.SampleCount8Bit,
			},
		},
		QueueFamilies: []native.QueueFamilyProperties{
			{Flags: vk.QueueGraphicsBit | vk.QueueComputeBit | vk.QueueTransferBit, Count: 1, TimestampValidBits: 64},
			{Flags: vk.QueueComputeBit | vk.QueueTransferBit, Count: 2, TimestampValidBits: 64},
			{Flags: vk.QueueTransferBit, Count: 1},
		},
		SurfaceCapabilities: native.SurfaceCapabilities{
			MinImageCount:           2,
			MaxImageCount:           8,
			CurrentExtent:           vk.Extent2D{Width: 640, Height: 480},
			MinImageExtent:          vk.Extent2D{Width: 1, Height: 1},
			MaxImageExtent:          vk.Extent2D{Width: 16384, Height: 16384},
			MaxImageArrayLayers:     1,
			SupportedTransforms:     vk.SurfaceTransformIdentityBit,
			CurrentTransform:        vk.SurfaceTransformIdentityBit,
			SupportedCompositeAlpha: vk.CompositeAlphaOpaqueBit,
			SupportedUsage:          vk.ImageUsageColorAttachmentBit | vk.ImageUsageTransferDstBit | vk.ImageUsageTransferSrcBit,
		},
		SurfaceFormats: []vk.SurfaceFormat{
			{Format: vk.FormatB8G8R8A8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
			{Format: vk.FormatB8G8R8A8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		},
		PresentModes: []vk.PresentMode{vk.PresentModeFifo, vk.PresentModeMailbox, vk.PresentModeImmediate},
	}
}

type Driver struct {
	mtx     sync.Mutex
	config  Config
	devices []*Device
}

func NewDriver(config Config) *Driver {
	return &Driver{config: config}
}

func (d *Driver) CreateInstance(native.InstanceCreateInfo) (native.Instance, error) {
	return &instance{driver: d}, nil
}

/*
Devices returns every device created through this driver, in creation order.
*/
func (d *Driver) Devices() []*Device {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return append([]*Device(nil), d.devices...)
}

type instance struct {
	driver *Driver
}

func (i *instance) PhysicalDevices() ([]native.PhysicalDevice, error) {
	return []native.PhysicalDevice{&physicalDevice{driver: i.driver}}, nil
}

func (i *instance) DestroySurface(native.Surface) {}

func (i *instance) Destroy() {}

type physicalDevice struct {
	driver *Driver
}

func (p *physicalDevice) Properties() native.PhysicalDeviceProperties {
	return p.driver.config.Properties
}

func (p *physicalDevice) QueueFamilies() []native.QueueFamilyProperties {
	return append([]native.QueueFamilyProperties(nil), p.driver.config.QueueFamilies...)
}

func (p *physicalDevice) FormatProperties(f vk.Format) native.FormatProperties {
	if f == vk.FormatUndefined {
		return native.FormatProperties{}
	}
	all := vk.FormatFeatureSampledImageBit | vk.FormatFeatureStorageImageBit | vk.FormatFeatureBlitSrcBit |
		vk.FormatFeatureBlitDstBit | vk.FormatFeatureSampledImageFilterLinearBit |
		vk.FormatFeatureTransferSrcBit | vk.FormatFeatureTransferDstBit
	if f.IsDepthStencil() {
		all |= vk.FormatFeatureDepthStencilAttachmentBit
	} else if !f.IsCompressed() {
		all |= vk.FormatFeatureColorAttachmentBit | vk.FormatFeatureColorAttachmentBlendBit
	}
	return native.FormatProperties{
		LinearTilingFeatures:  all,
		OptimalTilingFeatures: all,
		BufferFeatures:        vk.FormatFeatureVertexBufferBit | vk.FormatFeatureUniformTexelBufferBit | vk.FormatFeatureStorageTexelBufferBit,
	}
}

func (p *physicalDevice) SurfaceSupport(family uint32, surface native.Surface) (bool, error) {
	if surface == 0 {
		return false, vk.ErrorSurfaceLost
	}
	for _, s := range p.driver.config.UnsupportedSurfaces {
		if s == surface {
			return false, nil
		}
	}
	return int(family) < len(p.driver.config.QueueFamilies) &&
		(p.driver.config.QueueFamilies[family].Flags&vk.QueueGraphicsBit) != 0, nil
}

func (p *physicalDevice) SurfaceCapabilities(surface native.Surface) (native.SurfaceCapabilities, error) {
	if surface == 0 {
		return native.SurfaceCapabilities{}, vk.ErrorSurfaceLost
	}
	p.driver.mtx.Lock()
	defer p.driver.mtx.Unlock()
	return p.driver.config.SurfaceCapabilities, nil
}

func (p *physicalDevice) SurfaceFormats(surface native.Surface) ([]vk.SurfaceFormat, error) {
	if surface == 0 {
		return nil, vk.ErrorSurfaceLost
	}
	return append([]vk.SurfaceFormat(nil), p.driver.config.SurfaceFormats...), nil
}

func (p *physicalDevice) SurfacePresentModes(surface native.Surface) ([]vk.PresentMode, error) {
	if surface == 0 {
		return nil, vk.ErrorSurfaceLost
	}
	return append([]vk.PresentMode(nil), p.driver.config.PresentModes...), nil
}

func (p *physicalDevice) CreateDevice(info native.DeviceCreateInfo) (native.Device, error) {
	d := newDevice(p.driver.config, info)
	p.driver.mtx.Lock()
	p.driver.devices = append(p.driver.devices, d)
	p.driver.mtx.Unlock()
	return d, nil
}

/*
SetSurfaceExtent changes the extent reported by every surface, as a window
resize would.
*/
func (d *Driver) SetSurfaceExtent(width, height uint32) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.config.SurfaceCapabilities.CurrentExtent = vk.Extent2D{Width: width, Height: height}
}
