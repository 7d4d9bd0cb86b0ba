package main

import (
	"github.com/haytac/emoji-scrub/internal/cli"
	"github.com/haytac/emoji-scrub/internal/logging"
)

func main() {
	// Quiet logger until PersistentPreRunE applies the loaded config.
	logging.Setup(logging.Config{Level: "warn", Console: true, TimeFormat: "15:04:05"})

	cli.Execute()
}
