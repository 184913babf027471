package main

import (
	"fmt"
	"os"

	"github.com/harrison/licensesearch/internal/cmd"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	rootCmd := cmd.NewRootCommand()
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		if !cmd.Silent(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return cmd.ExitCode(err)
	}
	return 0
}
