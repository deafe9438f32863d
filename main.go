package main

import (
	"os"

	"github.com/mrops-br/products-catalog/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
