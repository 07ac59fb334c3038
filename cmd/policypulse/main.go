// Command policypulse is the PolicyPulse CLI.
package main

import (
	"os"

	"github.com/policypulse/policypulse/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
