package main

import (
	"os"
)

// @title           Actionify Meeting Analysis API
// @version         1.0
// @description     Turns meeting recordings and transcripts into summaries, action items, decisions and sentiment
// @BasePath        /v1

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
