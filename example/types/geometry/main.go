// Command geometry is an example typekit. Build it with:
//
//	go build -buildmode=plugin -o ../../modules/types/libgeometry.so .
package main

import (
	"fmt"
	"runtime"
)

type Point struct{ X, Y float64 }

type Pose struct {
	Position Point
	Heading  float64
}

// registered lists the types this typekit contributes.
var registered []string

func LoadPlugin(ctx uintptr) bool {
	registered = append(registered[:0],
		fmt.Sprintf("%T", Point{}),
		fmt.Sprintf("%T", Pose{}),
	)
	fmt.Printf("geometry: registered %v\n", registered)
	return true
}

func PluginName() string { return "geometry" }

func TargetName() string { return runtime.GOOS + "-" + runtime.GOARCH }

func main() {}
