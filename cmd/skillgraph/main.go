package main

import (
	"os"

	"skill-upcycle/internal/cli"
)

func main() {
	if err := cli.NewSkillgraphCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
