package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/couchcryptid/solar-sizing-service/internal/report"
	"github.com/shopspring/decimal"
)

func render(w io.Writer, r report.Report, format string) error {
	if format == formatTable {
		return renderTable(w, r)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// renderTable prints the power and current series side by side, then one
// wire table per site.
func renderTable(w io.Writer, r report.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Report %s  generated %s\n\n", r.ID, r.GeneratedAt.Format("2006-01-02 15:04:05Z07:00"))
	fmt.Fprintln(tw, "PANELS\tKW\tBREAKER A\tOCPD A\tCONTINUOUS A")
	for i, p := range r.Power {
		c := r.Currents[i]
		fmt.Fprintf(tw, "%d\t%.3f\t%s\t%d\t%s\n",
			p.PanelCount, p.KW, formatNumber(c.BreakerCurrent), c.OCPD, formatNumber(c.ContinuousCurrent))
	}

	for _, s := range r.Sites {
		fmt.Fprintf(tw, "\n%s  record high %s°F  max %s°F  derating %s  non-compliant %d\n",
			s.Name, formatNumber(s.TemperatureF), formatNumber(s.MaxTemperatureF), formatNumber(s.DeratingFactor), s.NonCompliant)
		fmt.Fprintln(tw, "PANELS\tGAUGE\tDERATED A\tOCPD A\tCOMPLIANT")
		for _, res := range s.Results {
			derated := "-"
			if res.Compliant {
				derated = formatNumber(res.DeratedAmpacity)
			}
			compliant := "yes"
			switch {
			case !res.Compliant:
				compliant = "NO"
			case res.Escalated:
				compliant = "yes (escalated)"
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", res.PanelCount, res.Gauge, derated, res.OCPD, compliant)
		}
	}
	return tw.Flush()
}

// formatNumber prints v to at most three decimals without trailing zeros.
func formatNumber(v float64) string {
	return decimal.NewFromFloat(v).Round(3).String()
}
