package main

import (
	"os"

	"github.com/contentgrid/dctm-connector/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
