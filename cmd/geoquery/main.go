// Command geoquery answers geography questions against local or remote copies
// of the political and postal community datasets.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
