// Command mint issues OAuth client credentials and tokens from the
// command line using the same generators a server would.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "mint: %v\n", err)
		os.Exit(exitCode(err))
	}
}
