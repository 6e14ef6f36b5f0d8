// Command styxdump parses a Styx document from stdin and prints its Value
// Tree to stdout as tagged JSON: every scalar is an object carrying its
// scalar kind and text, so types are never guessed back from plain JSON
// strings and numbers. An untagged unit is JSON null; a tagged value is an
// object carrying its tag and, unless its payload is unit, that payload.
package main

import (
	"encoding/json"
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

	out := valueToTagged(doc.Value)
	jsonBytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error marshaling JSON: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(jsonBytes))
}

// valueToTagged renders a styx.Value as a JSON value suitable for
// round-tripping through a human reading the dump: scalars carry their
// scalar kind explicitly rather than collapsing into bare JSON
// strings/numbers, and tagged values carry their tag. A unit payload
// renders as null (untagged) or as an absent "payload" field (tagged).
func valueToTagged(v styx.Value) any {
	var payload any
	switch v.Kind {
	case styx.PayloadScalar:
		payload = map[string]string{"kind": v.ScalarKind.String(), "text": v.Text}
	case styx.PayloadSequence:
		items := make([]any, 0, len(v.Items))
		for _, item := range v.Items {
			items = append(items, valueToTagged(item))
		}
		payload = items
	case styx.PayloadObject:
		entries := make([]any, 0, len(v.Entries))
		for _, e := range v.Entries {
			entries = append(entries, map[string]any{
				"key":   valueToTagged(e.Key),
				"value": valueToTagged(e.Value),
			})
		}
		payload = map[string]any{"separator": v.Separator.String(), "entries": entries}
	default:
		payload = nil
	}

	if !v.HasTag {
		return payload
	}
	out := map[string]any{"tag": v.Tag}
	if payload != nil {
		out["payload"] = payload
	}
	return out
}
