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
Package vez is a simplified layer over an explicit GPU API. Callers record
commands as if the GPU were a stateful machine: render passes, framebuffers
compatibility, descriptor sets, pipeline permutations and image layout
transitions are derived from what was recorded when the command buffer ends.

Every fallible operation returns a vk.Result as its error so it can be matched
with errors.Is against the kinds below.
*/
package vez

import "goarrg.com/rhi/vez/vk"

const (
	// ErrorBadArgument is returned for arguments that are invalid regardless
	// of device state.
	ErrorBadArgument = vk.ErrorValidationFailed
	// ErrorNotReady is returned by non blocking queries that have no result yet.
	ErrorNotReady = vk.NotReady
	// ErrorIncomplete is returned when a handle or object could not be found.
	ErrorIncomplete = vk.Incomplete
	// ErrorInitializationFailed is returned for failed shader compilation or
	// reflection and failed object creation.
	ErrorInitializationFailed = vk.ErrorInitializationFailed
	// ErrorIncompatibleDisplay is returned when no queue family can present to
	// a surface.
	ErrorIncompatibleDisplay = vk.ErrorIncompatibleDisplay
	// ErrorMemoryMapFailed is returned when mapping memory that is not host
	// visible.
	ErrorMemoryMapFailed = vk.ErrorMemoryMapFailed
)
