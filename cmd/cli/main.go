package main

import (
	"fmt"
	"os"
	"os/user"

	"github.com/wellfit-labs/wellfit/pkg/runtime/terminal"
)

func main() {
	defaultPath := ".wellfitcfg"
	if usr, err := user.Current(); err == nil {
		defaultPath = fmt.Sprintf("%s/.wellfitcfg", usr.HomeDir)
	}

	cli := terminal.NewCLI(terminal.Options{
		Output:             os.Stdout,
		DefaultProfilePath: defaultPath,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
