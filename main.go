package main

import (
	"os"

	"github.com/ajaykumartn/cognipath-ai-2/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
