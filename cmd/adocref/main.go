package main

import (
	"os"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
