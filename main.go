package main

import (
	"reel-service/app"
	"reel-service/pkg/observability"
)

func main() {
	observability.StartProfiling("reel-service")
	app.Run()
}
