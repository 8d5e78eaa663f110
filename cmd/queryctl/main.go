package main

import (
	"fmt"
	"os"

	"github.com/confluence-ai/query-analyzer/internal/cli"
)

var Version = "dev"

func main() {
	if err := cli.Execute(Version); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
