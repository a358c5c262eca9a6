// Package main provides the failspec binary entry point.
// Failspec governs failure specification documents: it validates them,
// freezes them, walks their entries through the role-guarded lifecycle with
// collected evidence, and keeps a ledger of post-freeze discoveries.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
