package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/woozymasta/tracemap/internal/config"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Input   string `short:"i" long:"in"      description:"Input file with one hop per line. Reads from stdin if empty"`
	Output  string `short:"o" long:"out"     description:"Output file path. Writes to stdout if empty"`
	Format  string `short:"f" long:"format"  description:"Output format" choice:"json" choice:"yaml" default:"yaml"`
	Color   string `short:"C" long:"color"   description:"Marker color for all points"`
	Address bool   `short:"a" long:"address" description:"Name points by address instead of host name"`
	Number  bool   `short:"n" long:"number"  description:"Prefix point names with the hop number"`
}

// fragment is the part of the tracemap config this tool produces.
type fragment struct {
	Points []config.Point `yaml:"points" json:"points"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Read Input
	var in io.Reader = os.Stdin
	if opts.Input != "" {
		f, err := os.Open(opts.Input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	points, skips, err := parseHops(in, parseOptions{
		Color:       opts.Color,
		UseAddress:  opts.Address,
		NumberNames: opts.Number,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, s := range skips {
		fmt.Fprintf(os.Stderr, "Skipping line %d (%s): %s\n", s.Line, s.Reason, s.Text)
	}

	outputData, err := marshal(fragment{Points: points}, opts.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling data: %v\n", err)
		os.Exit(1)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, outputData, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Successfully converted %d hops to %s (format: %s)\n", len(points), opts.Output, opts.Format)
		return
	}
	_, _ = os.Stdout.Write(outputData)
}

func marshal(v fragment, format string) ([]byte, error) {
	if format == "json" {
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	}
	return yaml.Marshal(v)
}
