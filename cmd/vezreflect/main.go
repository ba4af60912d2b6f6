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

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"goarrg.com/debug"
)

var flags flag.FlagSet

type generator uint32

const (
	generatorJSON generator = iota
	generatorYAML
	generatorGO
)

func (g *generator) UnmarshalText(data []byte) error {
	switch string(data) {
	case "json":
		*g = generatorJSON
	case "yaml":
		*g = generatorYAML
	case "go":
		*g = generatorGO
	default:
		return debug.Errorf("Invalid value: %q", data)
	}
	return nil
}

func (g generator) MarshalText() (text []byte, err error) {
	switch g {
	case generatorJSON:
		return ([]byte)("json"), nil
	case generatorYAML:
		return ([]byte)("yaml"), nil
	case generatorGO:
		return ([]byte)("go"), nil
	default:
		return nil, debug.Errorf("Invalid value: %d", g)
	}
}

func main() {
	debug.SetLevel(debug.LogLevelWarn)

	flags.Usage = help
	flags.Init("", flag.ExitOnError)

	v := flags.Bool("v", false, "Verbose - Print high level tasks")
	vv := flags.Bool("vv", false, "Very Verbose - Print everything")

	outDir := flags.String("out-dir", ".", "Sets the output directory.")
	entryPoint := flags.String("entry", "", "Sets the entry point to reflect, the first one of the module when empty.")
	wgsl := flags.Bool("wgsl", false, "Treat the input as WGSL source and compile it with naga first.\n"+
		"Files ending in .wgsl are always treated as WGSL.")

	g := generator(0)
	flags.TextVar(&g, "gen", generatorJSON, "Sets the generator to use when outputting the reflection.\n"+
		"Valid values are \"json\", \"yaml\" and \"go\".")

	err := flags.Parse(os.Args[1:])
	if err != nil {
		panic(err)
	}

	if *v {
		debug.SetLevel(debug.LogLevelInfo)
	} else if *vv {
		debug.SetLevel(debug.LogLevelVerbose)
	}

	args := flags.Args()
	if len(args) == 0 {
		debug.EPrintf("No input file provided.")
		help()
		os.Exit(2)
	} else if len(args) > 1 {
		debug.EPrintf("vezreflect can only reflect one file at a time.")
		help()
		os.Exit(2)
	}

	name := args[0]
	src, err := os.ReadFile(name)
	if err != nil {
		panic(debug.ErrorWrapf(err, "Failed to read %q", name))
	}

	debug.IPrintf("Reflecting shader")
	r, err := reflectSource(src, *wgsl || strings.EqualFold(filepath.Ext(name), ".wgsl"), *entryPoint)
	if err != nil {
		debug.EPrintf("%s", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		panic(err)
	}
	outName := filepath.Base(name)

	switch g {
	case generatorJSON:
		err = writeOutput(filepath.Join(*outDir, outName+".json"), func(f *os.File) error { return genJSON(f, r) })
	case generatorYAML:
		err = writeOutput(filepath.Join(*outDir, outName+".yaml"), func(f *os.File) error { return genYAML(f, r) })
	case generatorGO:
		pkg := packageName(*outDir)
		err = writeOutput(filepath.Join(*outDir, "zvezreflect_"+outName+".go"), func(f *os.File) error {
			return genGo(f, pkg, strings.Join(os.Args[1:], " "), r)
		})
	}
	if err != nil {
		panic(err)
	}
}

func writeOutput(filename string, gen func(*os.File) error) error {
	debug.IPrintf("Writing reflection to: %q", filename)
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := gen(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func help() {
	fmt.Fprintf(os.Stderr, "vezreflect reflects the interface of a shader entry point offline.\n"+
		"\nThe input is a SPIR-V binary or WGSL source, the output lists the stage inputs and outputs,\n"+
		"descriptor bindings, push constants and specialization constants the pipeline layout is built from.\n"+
		"\n")
	args := ""
	flags.VisitAll(func(f *flag.Flag) {
		n, u := flag.UnquoteUsage(f)
		if f.DefValue != "" {
			u += "\n\nDefaults to \"" + f.DefValue + "\"."
		}
		args += "\t-" + f.Name + " " + n + "\n\t\t" + strings.ReplaceAll(strings.TrimSpace(u), "\n", "\n\t\t") + "\n"
	})
	fmt.Fprintf(os.Stderr, "Usage:\n\t%s [arguments] <file>\n\nArguments:\n%s", filepath.Base(os.Args[0]), args)
}
