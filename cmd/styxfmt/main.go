// Command styxfmt reads a Styx document from stdin, reflows it with the
// default formatting options, and writes the result to stdout. Parse errors
// are reported to stderr and leave stdout untouched, rather than printing a
// best-effort partial reflow of malformed input.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/styxlang/styx"
)

func main() {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading stdin: %v\n", err)
		os.Exit(1)
	}

	doc := styx.ParseDocument(string(data))
	if !doc.OK() {
		for _, e := range doc.Errors {
			fmt.Fprintln(os.Stderr, styx.Render(e, "<stdin>", doc.Source))
		}
		os.Exit(1)
	}

	fmt.Print(doc.Format(styx.DefaultOptions()))
}
