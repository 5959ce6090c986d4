package main

import (
	"os"

	"github.com/kingyeung625/hk-school-selector/cmd/schoolctl/tool/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
