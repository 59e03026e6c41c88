package main

import (
	"fmt"
	"os"

	"github.com/babarot/dormant/internal/cli"
)

var (
	version   = "unset"
	revision  = "unset"
	buildDate = "unset"
)

func main() {
	v := cli.Version{
		AppName:   "dormant",
		Version:   version,
		Revision:  revision,
		BuildDate: buildDate,
	}
	if err := cli.Run(v); err != nil {
		fmt.Fprintf(os.Stderr, "dormant: %v\n", err)
		os.Exit(1)
	}
}
