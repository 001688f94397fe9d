package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is the build version string. Release builds override it with
// -ldflags "-X main.version=...".
var version = "1.0.0"

func runVersion(_ *cobra.Command, _ []string) {
	fmt.Printf("eqbench %s\n", version)
}
