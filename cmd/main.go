package main

import (
	"os"

	"github.com/finsight-ai/finsight/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
