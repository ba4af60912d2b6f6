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
	"goarrg.com/rhi/vez/internal/stream"
	"goarrg.com/rhi/vez/vk"
)

/*
prepareDispatch binds the compute pipeline if it changed and flushes its
descriptor sets at the position of the dispatch token.
*/
func (cb *CommandBuffer) prepareDispatch(name string) (int, bool) {
	if !cb.outsideRenderPass(name) {
		return 0, false
	}
	p := cb.compute
	if p == nil {
		instance.logger.WPrintf("Trying to record %s without a bound compute pipeline", name)
		cb.fail(ErrorBadArgument)
		return 0, false
	}

	pos := cb.stream.Tell()
	if cb.computeDirty {
		h, err := cb.device.pipelines.compute(p)
		if err != nil {
			cb.fail(err)
			return 0, false
		}
		cb.pipelineBinds = append(cb.pipelineBinds, pipelineBind{
			pos:       pos,
			bindPoint: vk.PipelineBindPointCompute,
			handle:    h,
			pipeline:  p,
			pass:      -1,
		})
		cb.computeDirty = false
	}
	cb.flushDescriptors(pos, p)
	return pos, true
}

func (cb *CommandBuffer) Dispatch(x, y, z uint32) {
	if _, ok := cb.prepareDispatch("Dispatch"); !ok {
		return
	}
	cb.put(cmdDispatch)
	stream.Put(cb.stream, dispatchCmd{x: x, y: y, z: z})
}

/*
DispatchIndirect reads its group counts from b at offset, which must be a
multiple of 4.
*/
func (cb *CommandBuffer) DispatchIndirect(b *Buffer, offset uint64) {
	cb.check("DispatchIndirect")
	if b == nil || offset%4 != 0 || offset+12 > b.info.Size {
		cb.fail(ErrorBadArgument)
		return
	}
	b.noCopy.Check()
	pos, ok := cb.prepareDispatch("DispatchIndirect")
	if !ok {
		return
	}
	cb.tracker.buffer(b, pos, vk.PipelineStageDrawIndirectBit, vk.AccessIndirectCommandReadBit)
	cb.put(cmdDispatchIndirect)
	stream.Put(cb.stream, dispatchIndirectCmd{buffer: b.handle, offset: offset})
}
