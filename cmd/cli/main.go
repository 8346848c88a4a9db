// survmon - Survey Displacement Monitor
//
// survmon reads dated survey snapshots, computes the displacement of each
// monitoring target from its baseline and plots it against trigger levels.
package main

import (
	"os"

	"github.com/ccollicutt/survmon/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
