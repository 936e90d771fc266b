package main

import (
	"context"
	"os"

	"github.com/Iron-Ham/etravel/internal/cmd"
)

func main() {
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
