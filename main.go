package main

import (
	"os"

	"github.com/zjrosen/gitlanes/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
