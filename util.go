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
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"goarrg.com/debug"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"

	"goarrg.com/rhi/vez/native"
	"goarrg.com/rhi/vez/vk"
)

func toHex(v any) string {
	switch t := v.(type) {
	case vk.DescriptorType:
		return fmt.Sprintf("0x%02X", int32(t))
	case uint32:
		return fmt.Sprintf("0x%02X", t)
	case native.Buffer, native.Image, native.DescriptorSetLayout, native.DescriptorPool,
		native.PipelineLayout, native.Pipeline, native.RenderPass, native.CommandBuffer,
		native.Swapchain, native.Fence, native.Queue:
		return fmt.Sprintf("0x%X", t)
	case uint64:
		return fmt.Sprintf("0x%016X", t)
	}
	abort("Unknown/Unhandled type: %T", v)
	return ""
}

func genID(items ...any) string {
	sb := strings.Builder{}
	for _, i := range items {
		switch t := i.(type) {
		case string:
			sb.WriteString(t)
		default:
			sb.WriteString(toHex(i))
		}
		sb.WriteRune(',')
	}
	if sb.Len() == 0 {
		return "[]"
	}
	return "[" + sb.String()[:sb.Len()-1] + "]"
}

func jsonString(target any) string {
	bytes, err := json.Marshal(target)
	if err != nil {
		abort("%s", err)
	}
	return strings.TrimSpace(string(bytes))
}

func hasBits[N constraints.Unsigned](t, want N) bool {
	return (t & want) == want
}

func mapRunFuncSorted[M ~map[K]V, K cmp.Ordered, V any](m M, f func(K, V) error) error {
	keys := maps.Keys(m)

	if len(keys) == 0 {
		return debug.Errorf("Empty map")
	}

	slices.Sort(keys)

	for _, k := range keys {
		err := f(k, m[k])
		if err != nil {
			return err
		}
	}

	return nil
}

func growSlice[S ~[]E, E any](s S, n int) S {
	if n -= cap(s); n > 0 {
		s = append(s[:cap(s)], make([]E, n)...)
	}

	return s
}
