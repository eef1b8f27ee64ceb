package main

import (
	"os"

	"precatorios/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.Consulta(version); err != nil {
		os.Exit(1)
	}
}
