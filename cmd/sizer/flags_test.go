package main

import (
	"io"
	"testing"

	"github.com/couchcryptid/solar-sizing-service/internal/config"
	"github.com/couchcryptid/solar-sizing-service/internal/report"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		PanelCount: 22,
		Sites:      []report.Site{{Name: "Fontana", TemperatureF: 117}},
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	opts, err := parseFlagsTo(nil, testConfig(), io.Discard)
	require.NoError(t, err)

	assert.Equal(t, 22, opts.panels)
	assert.Equal(t, []report.Site{{Name: "Fontana", TemperatureF: 117}}, opts.sites)
	assert.Equal(t, formatJSON, opts.format)
	assert.False(t, opts.escalate)
	assert.False(t, opts.serve)
	assert.False(t, opts.publish)
}

func TestParseFlags_Overrides(t *testing.T) {
	args := []string{
		"--panels", "30",
		"--site", "Desert Hot Springs=123",
		"-s", "Riverside:115",
		"--format", "table",
		"--escalate", "--publish",
	}
	opts, err := parseFlagsTo(args, testConfig(), io.Discard)
	require.NoError(t, err)

	assert.Equal(t, 30, opts.panels)
	assert.Equal(t, []report.Site{
		{Name: "Desert Hot Springs", TemperatureF: 123},
		{Name: "Riverside", TemperatureF: 115},
	}, opts.sites)
	assert.Equal(t, formatTable, opts.format)
	assert.True(t, opts.escalate)
	assert.True(t, opts.publish)
}

func TestParseFlags_EscalationDefaultsFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.OCPDEscalation = true

	opts, err := parseFlagsTo(nil, cfg, io.Discard)
	require.NoError(t, err)
	assert.True(t, opts.escalate)
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown format", []string{"--format", "xml"}},
		{"bad site", []string{"--site", "Fontana"}},
		{"non-numeric panels", []string{"--panels", "many"}},
		{"unknown flag", []string{"--verbose"}},
		{"positional argument", []string{"extra"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseFlagsTo(tc.args, testConfig(), io.Discard)
			assert.Error(t, err)
		})
	}
}

func TestParseFlags_Help(t *testing.T) {
	_, err := parseFlagsTo([]string{"--help"}, testConfig(), io.Discard)
	assert.ErrorIs(t, err, pflag.ErrHelp)
}

func TestParseFlags_HelpWithoutConfig(t *testing.T) {
	_, err := parseFlagsTo([]string{"--help"}, &config.Config{}, io.Discard)
	assert.ErrorIs(t, err, pflag.ErrHelp)
}

func TestHelpRequested(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{nil, false},
		{[]string{"--help"}, true},
		{[]string{"--panels", "30", "-h"}, true},
		{[]string{"--format", "table"}, false},
		{[]string{"--", "--help"}, false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, helpRequested(tc.args), "%v", tc.args)
	}
}
