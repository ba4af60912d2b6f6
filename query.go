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
	"goarrg.com/rhi/vez/internal/util"
	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/vk"
)

type QueryPoolCreateInfo = native.QueryPoolCreateInfo

type QueryPool struct {
	noCopy util.NoCopy
	device *Device
	handle native.QueryPool
	info   QueryPoolCreateInfo
}

func (p *QueryPool) Handle() native.QueryPool {
	p.noCopy.Check()
	return p.handle
}

func (d *Device) CreateQueryPool(info QueryPoolCreateInfo) (*QueryPool, error) {
	d.noCopy.Check()
	if info.QueryCount == 0 {
		return nil, ErrorBadArgument
	}
	h, err := d.native.CreateQueryPool(info)
	if err != nil {
		instance.logger.EPrintf("Failed to create query pool: %s", err)
		return nil, err
	}
	p := &QueryPool{device: d, handle: h, info: info}
	p.noCopy.Init()
	return p, nil
}

func (d *Device) DestroyQueryPool(p *QueryPool) {
	d.noCopy.Check()
	if p == nil {
		return
	}
	p.noCopy.Check()
	d.native.DestroyQueryPool(p.handle)
	p.noCopy.Close()
}

/*
QueryPoolResults copies count results starting at first into data, one result
every stride bytes.
*/
func (d *Device) QueryPoolResults(p *QueryPool, first, count uint32, data []byte, stride uint64, flags vk.QueryResultFlags) error {
	d.noCopy.Check()
	p.noCopy.Check()
	if uint64(first)+uint64(count) > uint64(p.info.QueryCount) || uint64(len(data)) < uint64(count)*stride {
		return ErrorBadArgument
	}
	return d.native.QueryPoolResults(p.handle, first, count, data, stride, flags)
}
