package main

import (
	"errors"
	"os"

	"github.com/mvp2008/jbusy/cmd"
	"github.com/mvp2008/jbusy/pkg/threadstat"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, threadstat.ErrUnsupportedPlatform) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
