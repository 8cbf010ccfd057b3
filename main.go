package main

import (
	"os"

	"github.com/getjobscout/jobscout/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
