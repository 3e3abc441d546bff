// cmd/intelctl/main.go
package main

import (
	"fmt"
	"os"

	"apartmentiq-workers/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
