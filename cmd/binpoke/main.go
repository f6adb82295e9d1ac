// Command binpoke inspects and manipulates binary files by byte offset.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"k8s.io/klog/v2"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run executes one invocation and returns the process exit status.
func run(argv []string, stdout, stderr io.Writer) int {
	defer klog.Flush()

	program := "binpoke"
	if len(argv) > 0 && argv[0] != "" {
		program = argv[0]
	}
	var args []string
	if len(argv) > 1 {
		args = argv[1:]
	}

	cmd := newRootCmd(program)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "%s: %v\n", program, err)
		}
		return 1
	}
	return 0
}
