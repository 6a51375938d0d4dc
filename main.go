package main

import (
	"os"

	"github.com/philipobrien-sdm/StratOS/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
