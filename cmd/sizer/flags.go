package main

import (
	"fmt"
	"io"

	"github.com/couchcryptid/solar-sizing-service/internal/config"
	"github.com/couchcryptid/solar-sizing-service/internal/report"
	"github.com/spf13/pflag"
)

const (
	formatJSON  = "json"
	formatTable = "table"
)

type options struct {
	panels   int
	sites    []report.Site
	format   string
	escalate bool
	serve    bool
	publish  bool
}

// parseFlags reads command-line flags over the configured defaults.
func parseFlags(args []string, cfg *config.Config) (options, error) {
	return parseFlagsTo(args, cfg, nil)
}

func parseFlagsTo(args []string, cfg *config.Config, out io.Writer) (options, error) {
	fs := pflag.NewFlagSet("sizer", pflag.ContinueOnError)
	if out != nil {
		fs.SetOutput(out)
	}

	opts := options{}
	var siteSpecs []string
	fs.IntVarP(&opts.panels, "panels", "n", cfg.PanelCount,
		"largest panel count to size (sizes 1..N)")
	fs.StringArrayVarP(&siteSpecs, "site", "s", nil,
		`site as "Name=TempF"; repeatable, replaces the configured sites`)
	fs.StringVarP(&opts.format, "format", "f", formatJSON,
		"output format: json or table")
	fs.BoolVar(&opts.escalate, "escalate", cfg.OCPDEscalation,
		"raise the OCPD in 5 A steps when no conductor fits the tabled breaker")
	fs.BoolVar(&opts.serve, "serve", false,
		"serve the sizing API instead of printing one report")
	fs.BoolVar(&opts.publish, "publish", false,
		"publish the report to the Kafka report topic")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if opts.format != formatJSON && opts.format != formatTable {
		return options{}, fmt.Errorf("unknown format %q (want json or table)", opts.format)
	}

	opts.sites = cfg.Sites
	if len(siteSpecs) > 0 {
		opts.sites = make([]report.Site, 0, len(siteSpecs))
		for _, spec := range siteSpecs {
			s, err := report.ParseSite(spec)
			if err != nil {
				return options{}, err
			}
			opts.sites = append(opts.sites, s)
		}
	}
	return opts, nil
}

// helpRequested reports whether args ask for usage before any "--".
func helpRequested(args []string) bool {
	for _, a := range args {
		switch a {
		case "--":
			return false
		case "-h", "--help":
			return true
		}
	}
	return false
}
