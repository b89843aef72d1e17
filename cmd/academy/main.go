// Command academy is the progress hub of the React Native academy: a CLI over
// the learner's progress ledger and a REST server for the mobile app.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
