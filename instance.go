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
	"slices"

	"goarrg.com/rhi/vez/internal/util"
	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/vk"
)

type VendorID uint32

const (
	VendorAMD    VendorID = 0x1002
	VendorNVIDIA VendorID = 0x10de
	VendorIntel  VendorID = 0x8086
)

func (id VendorID) String() string {
	switch id {
	case VendorAMD:
		return "AMD"
	case VendorNVIDIA:
		return "NVIDIA"
	case VendorIntel:
		return "Intel"
	default:
		return fmt.Sprintf("Unknown: 0x%04X", uint32(id))
	}
}

func apiString(api uint32) string {
	return fmt.Sprintf("%d.%d.%d", ((api >> 22) & 0x7F), ((api >> 12) & 0x3FF), (api & 0xFFF))
}

type InstanceCreateInfo = native.InstanceCreateInfo

type Instance struct {
	noCopy   util.NoCopy
	native   native.Instance
	physical []*PhysicalDevice
}

type PhysicalDevice struct {
	instance   *Instance
	native     native.PhysicalDevice
	properties native.PhysicalDeviceProperties
	families   []native.QueueFamilyProperties
}

/*
CreateInstance creates a native instance through driver and enumerates its
physical devices.
*/
func CreateInstance(driver native.Driver, info InstanceCreateInfo) (*Instance, error) {
	if driver == nil {
		return nil, ErrorBadArgument
	}
	h, err := driver.CreateInstance(info)
	if err != nil {
		instance.logger.EPrintf("Failed to create instance: %s", err)
		return nil, err
	}
	devices, err := h.PhysicalDevices()
	if err != nil {
		instance.logger.EPrintf("Failed to enumerate physical devices: %s", err)
		h.Destroy()
		return nil, err
	}

	i := &Instance{native: h}
	i.noCopy.Init()
	for _, pd := range devices {
		p := &PhysicalDevice{
			instance:   i,
			native:     pd,
			properties: pd.Properties(),
			families:   pd.QueueFamilies(),
		}
		i.physical = append(i.physical, p)
		instance.logger.IPrintf("Found physical device: %s", p)
	}
	return i, nil
}

/*
Native returns the backend instance, windowing layers use it to create surfaces.
*/
func (i *Instance) Native() native.Instance {
	i.noCopy.Check()
	return i.native
}

func (i *Instance) PhysicalDevices() []*PhysicalDevice {
	i.noCopy.Check()
	return slices.Clone(i.physical)
}

/*
DestroySurface releases a surface handed out by the windowing layer, every
swapchain created on it must be destroyed first.
*/
func (i *Instance) DestroySurface(s native.Surface) {
	i.noCopy.Check()
	i.native.DestroySurface(s)
}

/*
Destroy destroys the native instance, every device created from it must be
destroyed first.
*/
func (i *Instance) Destroy() {
	i.noCopy.Check()
	i.native.Destroy()
	i.physical = nil
	i.noCopy.Close()
}

func (p *PhysicalDevice) Properties() native.PhysicalDeviceProperties {
	return p.properties
}

func (p *PhysicalDevice) VendorID() VendorID {
	return VendorID(p.properties.VendorID)
}

func (p *PhysicalDevice) QueueFamilies() []native.QueueFamilyProperties {
	return slices.Clone(p.families)
}

func (p *PhysicalDevice) FormatProperties(f vk.Format) native.FormatProperties {
	return p.native.FormatProperties(f)
}

/*
SurfaceSupport reports whether the queue family can present to surface.
*/
func (p *PhysicalDevice) SurfaceSupport(family uint32, surface native.Surface) (bool, error) {
	if int(family) >= len(p.families) {
		return false, ErrorBadArgument
	}
	return p.native.SurfaceSupport(family, surface)
}

func (p *PhysicalDevice) String() string {
	return fmt.Sprintf("%q [%s 0x%04X] api %s", p.properties.Name, p.VendorID(), p.properties.DeviceID, apiString(p.properties.APIVersion))
}

func (p *PhysicalDevice) MarshalJSON() ([]byte, error) {
	buff := bytes.Buffer{}
	buff.WriteString("{")

	buff.WriteString(fmt.Sprintf("\"Name\": %q,", p.properties.Name))
	buff.WriteString(fmt.Sprintf("\"Vendor\": %q,", p.VendorID().String()))
	buff.WriteString(fmt.Sprintf("\"DeviceID\": %q,", toHex(p.properties.DeviceID)))
	buff.WriteString(fmt.Sprintf("\"API\": %q,", apiString(p.properties.APIVersion)))
	buff.WriteString(fmt.Sprintf("\"Limits\": %s,", jsonString(p.properties.Limits)))
	buff.WriteString(fmt.Sprintf("\"QueueFamilies\": %s", jsonString(p.families)))

	buff.WriteString("}")
	return buff.Bytes(), nil
}
