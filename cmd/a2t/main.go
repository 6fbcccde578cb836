package main

import (
	"fmt"
	"os"

	"audio2text/cmd/a2t/cmd"
	"audio2text/internal/app/config"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "configuration warning: %v\n", err)
	}

	cmd.Execute()
}
