package main

import "github.com/aalvaropc/preprints/internal/cli"

func main() {
	cli.Execute()
}
