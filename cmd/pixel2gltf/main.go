package main

import (
	"os"

	"pixel2gltf/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:], os.Stdout))
}
