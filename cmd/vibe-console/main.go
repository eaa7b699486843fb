package main

import "github.com/ftorstensson/vibe-console/internal/cli"

func main() {
	cli.Execute()
}
