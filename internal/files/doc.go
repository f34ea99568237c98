// Package files locates the pipeline's input workbooks.
//
// Discovery lists the .xlsx files of the raw directory and picks the billing
// and geographic workbooks by filename keyword. Matching ignores case and
// accents, so "Listado_de_Facturación_de_Molinos.xlsx" is found with the
// keyword "Facturacion".
//
// Example usage:
//
//	d := files.NewDiscovery(logger)
//	inputs, err := d.DiscoverInputs(paths.RawDir, cfg.Pipeline.BillingKeywords, cfg.Pipeline.GeoKeywords)
package files
