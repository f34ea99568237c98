package dataprocessing

import (
	"time"

	"molidata/pkg/contracts/domain"
)

// billingRow builds a raw billing row in sheet column order
func billingRow(date, mill, customer, zone, product, freight, totalKg, amount string) []string {
	return []string{"FC", "0001-00000001", date, mill, customer, zone, product, freight, "10", "25", totalKg, amount}
}

// scenarioRows returns two preamble rows followed by rows A, B and C:
// B carries an unparsable date, C a zero weight
func scenarioRows() [][]string {
	return [][]string{
		{"Listado de Facturacion de Molinos"},
		{"Periodo 2023"},
		billingRow("2023-01-15", "1", "Cliente A", "Norte", "Harina 000", "Si", "100", "1000"),
		billingRow("not a date", "1", "Cliente B", "Norte", "Harina 000", "Si", "50", "500"),
		billingRow("2023-02-01", "2", "Cliente C", "Sur", "Harina 0000", "No", "0", "2000"),
	}
}

// enriched builds an enriched record through the real deriver
func enriched(date string, customer, zone, product, freight string, mill, weight, amount domain.NullFloat) domain.EnrichedRecord {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return NewFeatureDeriver("Si", 1).Derive(domain.BillingRecord{
		Date:                d,
		MillID:              mill,
		CustomerName:        customer,
		Zone:                zone,
		ProductRaw:          product,
		FreightFlag:         freight,
		TotalWeightKg:       weight,
		AmountLocalCurrency: amount,
	})
}
