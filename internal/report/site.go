package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/couchcryptid/solar-sizing-service/internal/sizing"
)

// Site is an installation location and its record-high ambient temperature.
type Site struct {
	Name         string  `json:"name" yaml:"name"`
	TemperatureF float64 `json:"temperature_f" yaml:"record_high_f"`
}

// ParseSite parses "Name=Temp" or "Name:Temp". The separator is the last
// '=' or ':' so names may contain either character.
func ParseSite(spec string) (Site, error) {
	i := strings.LastIndexAny(spec, "=:")
	if i <= 0 {
		return Site{}, fmt.Errorf("%w: site %q must be NAME=TEMPERATURE", sizing.ErrInvalidArgument, spec)
	}
	name := strings.TrimSpace(spec[:i])
	temp, err := strconv.ParseFloat(strings.TrimSpace(spec[i+1:]), 64)
	if err != nil {
		return Site{}, fmt.Errorf("%w: site %q temperature: %v", sizing.ErrInvalidArgument, spec, err)
	}
	if name == "" {
		return Site{}, fmt.Errorf("%w: site %q has no name", sizing.ErrInvalidArgument, spec)
	}
	return Site{Name: name, TemperatureF: temp}, nil
}

// ParseSites parses a comma-separated list of site specs.
func ParseSites(list string) ([]Site, error) {
	var sites []Site
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		s, err := ParseSite(part)
		if err != nil {
			return nil, err
		}
		sites = append(sites, s)
	}
	return sites, nil
}

// SitesFromMap converts a name → temperature mapping into sites sorted by name.
func SitesFromMap(m map[string]float64) []Site {
	sites := make([]Site, 0, len(m))
	for name, temp := range m {
		sites = append(sites, Site{Name: name, TemperatureF: temp})
	}
	sortSites(sites)
	return sites
}

func sortSites(sites []Site) {
	sort.Slice(sites, func(i, j int) bool { return sites[i].Name < sites[j].Name })
}

func validateSites(sites []Site) error {
	seen := make(map[string]struct{}, len(sites))
	for _, s := range sites {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("%w: site without name", sizing.ErrInvalidArgument)
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("%w: duplicate site %q", sizing.ErrInvalidArgument, s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	return nil
}
