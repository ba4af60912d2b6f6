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

package vulkan

import (
	vulkan "github.com/goki/vulkan"

	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/vk"
)

type Instance struct {
	handle   vulkan.Instance
	surfaces registry[vulkan.Surface]
}

func (d *Driver) CreateInstance(info native.InstanceCreateInfo) (native.Instance, error) {
	if err := d.load(); err != nil {
		return nil, err
	}
	apiVersion := info.APIVersion
	if apiVersion == 0 {
		apiVersion = vulkan.MakeVersion(1, 1, 0)
	}
	var h vulkan.Instance
	ret := vulkan.CreateInstance(&vulkan.InstanceCreateInfo{
		SType: vulkan.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vulkan.ApplicationInfo{
			SType:              vulkan.StructureTypeApplicationInfo,
			PApplicationName:   info.ApplicationName + "\x00",
			ApplicationVersion: info.ApplicationVersion,
			PEngineName:        info.EngineName + "\x00",
			EngineVersion:      info.EngineVersion,
			ApiVersion:         apiVersion,
		},
		EnabledLayerCount:       uint32(len(info.EnabledLayers)),
		PpEnabledLayerNames:     cstrings(info.EnabledLayers),
		EnabledExtensionCount:   uint32(len(info.EnabledExtensions)),
		PpEnabledExtensionNames: cstrings(info.EnabledExtensions),
	}, nil, &h)
	if err := result(ret); err != nil {
		logger.EPrintf("Failed to create instance with layers %v and extensions %v: %s", info.EnabledLayers, info.EnabledExtensions, err)
		return nil, err
	}
	if err := vulkan.InitInstance(h); err != nil {
		vulkan.DestroyInstance(h, nil)
		logger.EPrintf("Failed to load instance functions: %s", err)
		return nil, vk.ErrorInitializationFailed
	}
	return &Instance{handle: h}, nil
}

/*
Handle returns the driver instance, windowing libraries need it to create
surfaces.
*/
func (i *Instance) Handle() vulkan.Instance {
	return i.handle
}

/*
ImportSurface registers a surface created by a windowing library, the instance
takes ownership of it.
*/
func (i *Instance) ImportSurface(s vulkan.Surface) native.Surface {
	return native.Surface(i.surfaces.add(s))
}

func (i *Instance) DestroySurface(s native.Surface) {
	if h, ok := i.surfaces.remove(uint64(s)); ok {
		vulkan.DestroySurface(i.handle, h, nil)
	}
}

func (i *Instance) PhysicalDevices() ([]native.PhysicalDevice, error) {
	var count uint32
	if err := result(vulkan.EnumeratePhysicalDevices(i.handle, &count, nil)); err != nil {
		return nil, err
	}
	handles := make([]vulkan.PhysicalDevice, count)
	if err := result(vulkan.EnumeratePhysicalDevices(i.handle, &count, handles)); err != nil {
		return nil, err
	}
	out := make([]native.PhysicalDevice, 0, count)
	for _, h := range handles[:count] {
		out = append(out, newPhysicalDevice(i, h))
	}
	return out, nil
}

func (i *Instance) Destroy() {
	i.surfaces.mtx.Lock()
	for _, s := range i.surfaces.objects {
		vulkan.DestroySurface(i.handle, s, nil)
	}
	clear(i.surfaces.objects)
	i.surfaces.mtx.Unlock()
	vulkan.DestroyInstance(i.handle, nil)
}

type physicalDevice struct {
	instance   *Instance
	handle     vulkan.PhysicalDevice
	properties native.PhysicalDeviceProperties
	families   []native.QueueFamilyProperties
	memory     vulkan.PhysicalDeviceMemoryProperties
}

func newPhysicalDevice(i *Instance, h vulkan.PhysicalDevice) *physicalDevice {
	p := &physicalDevice{instance: i, handle: h}

	var props vulkan.PhysicalDeviceProperties
	vulkan.GetPhysicalDeviceProperties(h, &props)
	props.Deref()
	props.Limits.Deref()
	l := props.Limits
	p.properties = native.PhysicalDeviceProperties{
		APIVersion:    props.ApiVersion,
		DriverVersion: props.DriverVersion,
		VendorID:      props.VendorID,
		DeviceID:      props.DeviceID,
		Type:          vk.PhysicalDeviceType(props.DeviceType),
		Name:          gostring(props.DeviceName[:]),
		Limits: native.PhysicalDeviceLimits{
			MaxImageDimension1D:              l.MaxImageDimension1D,
			MaxImageDimension2D:              l.MaxImageDimension2D,
			MaxImageDimension3D:              l.MaxImageDimension3D,
			MaxImageDimensionCube:            l.MaxImageDimensionCube,
			MaxImageArrayLayers:              l.MaxImageArrayLayers,
			MaxBoundDescriptorSets:           l.MaxBoundDescriptorSets,
			MaxPushConstantsSize:             l.MaxPushConstantsSize,
			MaxColorAttachments:              l.MaxColorAttachments,
			MaxViewports:                     l.MaxViewports,
			NonCoherentAtomSize:              uint64(l.NonCoherentAtomSize),
			MinUniformBufferOffsetAlignment:  uint64(l.MinUniformBufferOffsetAlignment),
			MinStorageBufferOffsetAlignment:  uint64(l.MinStorageBufferOffsetAlignment),
			OptimalBufferCopyOffsetAlignment: uint64(l.OptimalBufferCopyOffsetAlignment),
			TimestampPeriod:                  l.TimestampPeriod,
			FramebufferColorSampleCounts:     vk.SampleCountFlags(l.FramebufferColorSampleCounts),
			FramebufferDepthSampleCounts:     vk.SampleCountFlags(l.FramebufferDepthSampleCounts),
		},
	}

	var count uint32
	vulkan.GetPhysicalDeviceQueueFamilyProperties(h, &count, nil)
	families := make([]vulkan.QueueFamilyProperties, count)
	vulkan.GetPhysicalDeviceQueueFamilyProperties(h, &count, families)
	for _, f := range families[:count] {
		f.Deref()
		p.families = append(p.families, native.QueueFamilyProperties{
			Flags:              vk.QueueFlags(f.QueueFlags),
			Count:              f.QueueCount,
			TimestampValidBits: f.TimestampValidBits,
		})
	}

	vulkan.GetPhysicalDeviceMemoryProperties(h, &p.memory)
	p.memory.Deref()
	for i := range p.memory.MemoryTypeCount {
		p.memory.MemoryTypes[i].Deref()
	}
	return p
}

func (p *physicalDevice) Properties() native.PhysicalDeviceProperties {
	return p.properties
}

func (p *physicalDevice) QueueFamilies() []native.QueueFamilyProperties {
	return append([]native.QueueFamilyProperties(nil), p.families...)
}

func (p *physicalDevice) FormatProperties(f vk.Format) native.FormatProperties {
	var props vulkan.FormatProperties
	vulkan.GetPhysicalDeviceFormatProperties(p.handle, vulkan.Format(f), &props)
	props.Deref()
	return native.FormatProperties{
		LinearTilingFeatures:  vk.FormatFeatureFlags(props.LinearTilingFeatures),
		OptimalTilingFeatures: vk.FormatFeatureFlags(props.OptimalTilingFeatures),
		BufferFeatures:        vk.FormatFeatureFlags(props.BufferFeatures),
	}
}

func (p *physicalDevice) surface(s native.Surface) (vulkan.Surface, error) {
	h := p.instance.surfaces.get(uint64(s))
	if h == nil {
		return h, vk.ErrorSurfaceLost
	}
	return h, nil
}

func (p *physicalDevice) SurfaceSupport(family uint32, s native.Surface) (bool, error) {
	h, err := p.surface(s)
	if err != nil {
		return false, err
	}
	var supported vulkan.Bool32
	if err := result(vulkan.GetPhysicalDeviceSurfaceSupport(p.handle, family, h, &supported)); err != nil {
		return false, err
	}
	return supported == vulkan.True, nil
}

func (p *physicalDevice) SurfaceCapabilities(s native.Surface) (native.SurfaceCapabilities, error) {
	h, err := p.surface(s)
	if err != nil {
		return native.SurfaceCapabilities{}, err
	}
	var caps vulkan.SurfaceCapabilities
	if err := result(vulkan.GetPhysicalDeviceSurfaceCapabilities(p.handle, h, &caps)); err != nil {
		return native.SurfaceCapabilities{}, err
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()
	return native.SurfaceCapabilities{
		MinImageCount:           caps.MinImageCount,
		MaxImageCount:           caps.MaxImageCount,
		CurrentExtent:           vk.Extent2D{Width: caps.CurrentExtent.Width, Height: caps.CurrentExtent.Height},
		MinImageExtent:          vk.Extent2D{Width: caps.MinImageExtent.Width, Height: caps.MinImageExtent.Height},
		MaxImageExtent:          vk.Extent2D{Width: caps.MaxImageExtent.Width, Height: caps.MaxImageExtent.Height},
		MaxImageArrayLayers:     caps.MaxImageArrayLayers,
		SupportedTransforms:     vk.SurfaceTransformFlags(caps.SupportedTransforms),
		CurrentTransform:        vk.SurfaceTransformFlags(caps.CurrentTransform),
		SupportedCompositeAlpha: vk.CompositeAlphaFlags(caps.SupportedCompositeAlpha),
		SupportedUsage:          vk.ImageUsageFlags(caps.SupportedUsageFlags),
	}, nil
}

func (p *physicalDevice) SurfaceFormats(s native.Surface) ([]vk.SurfaceFormat, error) {
	h, err := p.surface(s)
	if err != nil {
		return nil, err
	}
	var count uint32
	if err := result(vulkan.GetPhysicalDeviceSurfaceFormats(p.handle, h, &count, nil)); err != nil {
		return nil, err
	}
	formats := make([]vulkan.SurfaceFormat, count)
	if err := result(vulkan.GetPhysicalDeviceSurfaceFormats(p.handle, h, &count, formats)); err != nil {
		return nil, err
	}
	out := make([]vk.SurfaceFormat, 0, count)
	for _, f := range formats[:count] {
		f.Deref()
		out = append(out, vk.SurfaceFormat{Format: vk.Format(f.Format), ColorSpace: vk.ColorSpace(f.ColorSpace)})
	}
	return out, nil
}

func (p *physicalDevice) SurfacePresentModes(s native.Surface) ([]vk.PresentMode, error) {
	h, err := p.surface(s)
	if err != nil {
		return nil, err
	}
	var count uint32
	if err := result(vulkan.GetPhysicalDeviceSurfacePresentModes(p.handle, h, &count, nil)); err != nil {
		return nil, err
	}
	modes := make([]vulkan.PresentMode, count)
	if err := result(vulkan.GetPhysicalDeviceSurfacePresentModes(p.handle, h, &count, modes)); err != nil {
		return nil, err
	}
	out := make([]vk.PresentMode, 0, count)
	for _, m := range modes[:count] {
		out = append(out, vk.PresentMode(m))
	}
	return out, nil
}

/*
memoryType returns the first memory type allowed by bits that has every
required property, preferring one that also has the preferred ones.
*/
func (p *physicalDevice) memoryType(bits uint32, required, preferred vulkan.MemoryPropertyFlags) (uint32, bool) {
	found, ok := uint32(0), false
	for i := range p.memory.MemoryTypeCount {
		if bits&(1<<i) == 0 {
			continue
		}
		flags := p.memory.MemoryTypes[i].PropertyFlags
		if flags&required != required {
			continue
		}
		if flags&preferred == preferred {
			return i, true
		}
		if !ok {
			found, ok = i, true
		}
	}
	return found, ok
}

func (p *physicalDevice) CreateDevice(info native.DeviceCreateInfo) (native.Device, error) {
	queues := make([]vulkan.DeviceQueueCreateInfo, 0, len(info.Queues))
	for _, q := range info.Queues {
		queues = append(queues, vulkan.DeviceQueueCreateInfo{
			SType:            vulkan.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: q.Family,
			QueueCount:       uint32(len(q.Priorities)),
			PQueuePriorities: q.Priorities,
		})
	}
	var h vulkan.Device
	ret := vulkan.CreateDevice(p.handle, &vulkan.DeviceCreateInfo{
		SType:                   vulkan.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queues)),
		PQueueCreateInfos:       queues,
		EnabledLayerCount:       uint32(len(info.EnabledLayers)),
		PpEnabledLayerNames:     cstrings(info.EnabledLayers),
		EnabledExtensionCount:   uint32(len(info.EnabledExtensions)),
		PpEnabledExtensionNames: cstrings(info.EnabledExtensions),
	}, nil, &h)
	if err := result(ret); err != nil {
		logger.EPrintf("Failed to create device on %q: %s", p.properties.Name, err)
		return nil, err
	}
	logger.IPrintf("Created device on %q", p.properties.Name)
	return newDevice(p, h), nil
}
