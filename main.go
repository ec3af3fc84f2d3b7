package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/linklens/ai-engine/internal/serve"
)

func main() {
	app := &cli.App{
		Name:  "linklens-engine",
		Usage: "Enriches saved web links with metadata and AI summaries",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP processing API",
				Action: serve.Action,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
