package main

import (
	"os"

	"github.com/pdor-dev/pdor/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
