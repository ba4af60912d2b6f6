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
Package managed holds higher level helpers built on the vez façade.
*/
package managed

import (
	"goarrg.com/debug"
)

var instance = struct {
	logger *debug.Logger
}{
	logger: debug.NewLogger("vez", "managed"),
}

func SetLogLevel(l uint32) {
	instance.logger.SetLevel(l)
}

func abort(fmt string, args ...any) {
	instance.logger.EPrintf(fmt, args...)
	panic("Fatal Error")
}

/*
Destroyer is anything that releases resources once the GPU is done with them.
*/
type Destroyer interface {
	Destroy()
}

/*
DestroyFunc adapts a func to a Destroyer.
*/
type DestroyFunc func()

func (f DestroyFunc) Destroy() {
	f()
}
