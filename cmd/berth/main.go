package main

import (
	"fmt"
	"os"

	"berth/internal/core/reconciler"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if kind := reconciler.Kind(err); kind != "" {
			fmt.Fprintf(os.Stderr, "berth: %s: %v\n", kind, err)
		} else {
			fmt.Fprintf(os.Stderr, "berth: %v\n", err)
		}
		os.Exit(reconciler.ExitCode(err))
	}
}
