package main

import "github.com/abdul-hamid-achik/fixspec/apps/cli/cmd"

// Set via -ldflags "-X main.version=... -X main.buildTime=..."
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cmd.Execute(version, buildTime)
}
