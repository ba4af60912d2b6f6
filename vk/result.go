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

package vk

import "fmt"

/*
Result is a native status code. Every non success value is also an error so it
can be returned directly and matched with errors.Is.
*/
type Result int32

const (
	Success                   Result = 0
	NotReady                  Result = 1
	Timeout                   Result = 2
	EventSet                  Result = 3
	EventReset                Result = 4
	Incomplete                Result = 5
	ErrorOutOfHostMemory      Result = -1
	ErrorOutOfDeviceMemory    Result = -2
	ErrorInitializationFailed Result = -3
	ErrorDeviceLost           Result = -4
	ErrorMemoryMapFailed      Result = -5
	ErrorLayerNotPresent      Result = -6
	ErrorExtensionNotPresent  Result = -7
	ErrorFeatureNotPresent    Result = -8
	ErrorIncompatibleDriver   Result = -9
	ErrorTooManyObjects       Result = -10
	ErrorFormatNotSupported   Result = -11
	ErrorFragmentedPool       Result = -12
	ErrorOutOfPoolMemory      Result = -1000069000
	ErrorSurfaceLost          Result = -1000000000
	ErrorNativeWindowInUse    Result = -1000000001
	Suboptimal                Result = 1000001003
	ErrorOutOfDate            Result = -1000001004
	ErrorIncompatibleDisplay  Result = -1000003001
	ErrorValidationFailed     Result = -1000011001
)

var resultStr = map[Result]string{
	Success:                   "Success",
	NotReady:                  "NotReady",
	Timeout:                   "Timeout",
	EventSet:                  "EventSet",
	EventReset:                "EventReset",
	Incomplete:                "Incomplete",
	ErrorOutOfHostMemory:      "ErrorOutOfHostMemory",
	ErrorOutOfDeviceMemory:    "ErrorOutOfDeviceMemory",
	ErrorInitializationFailed: "ErrorInitializationFailed",
	ErrorDeviceLost:           "ErrorDeviceLost",
	ErrorMemoryMapFailed:      "ErrorMemoryMapFailed",
	ErrorLayerNotPresent:      "ErrorLayerNotPresent",
	ErrorExtensionNotPresent:  "ErrorExtensionNotPresent",
	ErrorFeatureNotPresent:    "ErrorFeatureNotPresent",
	ErrorIncompatibleDriver:   "ErrorIncompatibleDriver",
	ErrorTooManyObjects:       "ErrorTooManyObjects",
	ErrorFormatNotSupported:   "ErrorFormatNotSupported",
	ErrorFragmentedPool:       "ErrorFragmentedPool",
	ErrorOutOfPoolMemory:      "ErrorOutOfPoolMemory",
	ErrorSurfaceLost:          "ErrorSurfaceLost",
	ErrorNativeWindowInUse:    "ErrorNativeWindowInUse",
	Suboptimal:                "Suboptimal",
	ErrorOutOfDate:            "ErrorOutOfDate",
	ErrorIncompatibleDisplay:  "ErrorIncompatibleDisplay",
	ErrorValidationFailed:     "ErrorValidationFailed",
}

func (r Result) String() string {
	if s, ok := resultStr[r]; ok {
		return s
	}
	return fmt.Sprintf("Result(%d)", int32(r))
}

func (r Result) Error() string {
	return "vk: " + r.String()
}

// Err returns nil for Success and r otherwise.
func (r Result) Err() error {
	if r == Success {
		return nil
	}
	return r
}
