// Command joinfeed-scan runs text through the extraction pipeline and
// prints the candidates as JSON. Useful for tuning the pattern pack
// without waiting for real channel traffic
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"joinfeed/internal/core/extract"
	"joinfeed/internal/core/normalize"
	"joinfeed/internal/core/patterns"
)

type result struct {
	Found       int      `json:"found"`
	Identifiers []string `json:"identifiers"`
	Platform    string   `json:"platform,omitempty"`
}

func main() {
	packPath := flag.String("pack", "", "pattern pack JSON file (default: embedded pack)")
	flag.Parse()

	var (
		pack *patterns.Pack
		err  error
	)
	if *packPath != "" {
		raw, rerr := os.ReadFile(*packPath)
		if rerr != nil {
			fmt.Fprintf(os.Stderr, "read pack: %v\n", rerr)
			os.Exit(1)
		}
		pack, err = patterns.Parse(raw)
	} else {
		pack, err = patterns.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "load pack: %v\n", err)
		os.Exit(1)
	}

	text := strings.Join(flag.Args(), " ")
	if text == "" {
		raw, rerr := io.ReadAll(os.Stdin)
		if rerr != nil {
			fmt.Fprintf(os.Stderr, "read stdin: %v\n", rerr)
			os.Exit(1)
		}
		text = string(raw)
	}
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(os.Stderr, "usage: joinfeed-scan [-pack file] <text>  (or pipe text on stdin)")
		os.Exit(2)
	}

	ex := extract.New(pack)
	clean := normalize.Clean(text)
	ids := ex.Extract(clean)
	if ids == nil {
		ids = []string{}
	}

	out := result{
		Found:       len(ids),
		Identifiers: ids,
		Platform:    ex.Platform(clean),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		os.Exit(1)
	}
}
