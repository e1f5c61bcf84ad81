// cmd/toolbelt/main.go
package main

import (
	toolbelt "github.com/mwiater/toolbelt/internal/commands"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	setVersionInfo = toolbelt.SetVersionInfo
	executeCmd     = toolbelt.Execute
)

func main() {
	setVersionInfo(version, commit, date)
	executeCmd()
}
