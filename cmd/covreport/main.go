package main

import (
	"fmt"
	"os"

	"github.com/zjy-dev/covreport/cmd/covreport/app"
)

func main() {
	if err := app.NewCovReportCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
