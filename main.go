package main

import (
	"fmt"
	"os"

	"github.com/oakwood-commons/tabula/cmd"
	"github.com/oakwood-commons/tabula/pkg/logger"
)

func main() {
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}

	logger.Sync()
	if code := cmd.ExitCode(err); code != 0 {
		os.Exit(code)
	}
}
