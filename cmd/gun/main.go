package main

import (
	"fmt"
	"os"

	gunhttp "github.com/maksyko/gun-http"

	// Fixes DNS resolution on Android when cross compiled.
	_ "github.com/mtibben/androiddnsfix"
)

func main() {
	if err := gunhttp.Main(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}
