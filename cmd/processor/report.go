package main

import (
	"fmt"
	"io"
	"strings"

	"molidata/internal/dataprocessing"
	"molidata/internal/exporter"
	"molidata/pkg/contracts/domain"
)

// reportTopN is the number of entries printed per ranking
const reportTopN = 5

// printReport writes the headline KPIs of a run
func printReport(w io.Writer, result *dataprocessing.Result, artifacts []exporter.Artifact) {
	ov := result.Insights.Overview
	fa := result.Insights.FreightAnalysis

	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "MILL BILLING SUMMARY")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Period:             %s to %s\n", ov.DateRange.Start.String(), ov.DateRange.End.String())
	fmt.Fprintf(w, "Total revenue:      %.2f\n", ov.TotalRevenue)
	fmt.Fprintf(w, "Total volume (kg):  %.2f\n", ov.TotalVolumeKg)
	fmt.Fprintf(w, "Transactions:       %d (%d rows dropped)\n", ov.TotalTransactions, result.Stats.RowsDropped)
	fmt.Fprintf(w, "Customers:          %d\n", ov.UniqueCustomers)
	fmt.Fprintf(w, "Products:           %d\n", ov.UniqueProducts)
	fmt.Fprintf(w, "Mills:              %d\n", ov.UniqueMills)
	fmt.Fprintf(w, "Zones:              %d\n", ov.UniqueZones)

	printRanking(w, "Top customers", result.Insights.TopCustomers)
	printRanking(w, "Top products", result.Insights.TopProducts)
	printRanking(w, "Top zones", result.Insights.TopZones)

	fmt.Fprintln(w, "\nFreight")
	fmt.Fprintf(w, "  With freight:     %.2f\n", fa.WithFreight)
	fmt.Fprintf(w, "  Without freight:  %.2f\n", fa.WithoutFreight)
	fmt.Fprintf(w, "  Flagged records:  %.1f%%\n", fa.FreightPercentage)

	fmt.Fprintf(w, "\nGeographic: %d records, %d provinces, %d cities\n",
		result.Stats.GeographicRecords, result.Stats.Provinces, result.Stats.Cities)
	fmt.Fprintf(w, "Artifacts written: %d\n", len(artifacts))
}

func printRanking(w io.Writer, title string, ranking domain.RankedValues) {
	fmt.Fprintf(w, "\n%s\n", title)
	if len(ranking) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for i, entry := range ranking {
		if i == reportTopN {
			break
		}
		fmt.Fprintf(w, "  %d. %-40s %14.2f\n", i+1, entry.Key, entry.Value)
	}
}
