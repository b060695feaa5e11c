package main

import "github.com/LeJamon/goAnchorSVM/internal/cli"

func main() {
	cli.Execute()
}
