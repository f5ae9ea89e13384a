//go:build tinygo

package main

import (
	"starterkit/app"
	"starterkit/config"
	"starterkit/hal"
)

func main() {
	app.Run(hal.New(), config.Default())
}
