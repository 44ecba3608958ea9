// Package main provides the gdeflate CLI tool for compressing and
// decompressing files with a GDeflate codec library.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
