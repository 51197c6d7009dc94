package main

import (
	"os"

	"inkwell/cli"
)

func main() {
	cli.Run(os.Args[1:])
}
