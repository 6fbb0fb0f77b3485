package main

import (
	"os"

	"lol-leaderboard/cmd/ladder/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
