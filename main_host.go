//go:build !tinygo

package main

import "starterkit/internal/cli"

func main() {
	cli.Execute()
}
