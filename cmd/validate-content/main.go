// Command validate-content checks an events.yaml/items.yaml pair and exits
// non-zero when the catalog has problems.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"kaamos/internal/domain/content"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("validate-content", flag.ContinueOnError)
	fs.SetOutput(errOut)
	dir := fs.String("dir", "", "content directory (embedded catalog when empty)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var (
		catalog *content.Catalog
		err     error
	)
	if *dir == "" {
		catalog, err = content.LoadDefault()
	} else {
		catalog, err = content.LoadDir(*dir)
	}
	if err != nil {
		fmt.Fprintf(errOut, "load: %v\n", err)
		return 1
	}

	problems := content.Validate(catalog)
	for _, p := range problems {
		fmt.Fprintln(errOut, p.Error())
	}
	if len(problems) > 0 {
		fmt.Fprintf(errOut, "%d problem(s)\n", len(problems))
		return 1
	}
	fmt.Fprintf(out, "ok: %d events, %d items\n", len(catalog.Events()), len(catalog.Items()))
	return 0
}
