package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// Workbook file names that match the default discovery keywords
const (
	BillingWorkbookName    = "Listado_de_Facturacion_de_Molinos.xlsx"
	GeographicWorkbookName = "Ventas_datos_geograficos.xlsx"
)

// WriteWorkbook saves rows to a single-sheet workbook and returns its path.
// nil cells are left empty.
func WriteWorkbook(t *testing.T, dir, name, sheet string, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))

	for r, row := range rows {
		for c, val := range row {
			if val == nil {
				continue
			}
			cellName, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cellName, val))
		}
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

// BillingWorkbookRows mirrors a real export: a title row, a blank row, the
// column header row and four data rows, one of which has no usable date.
// Three records survive; revenue is 1000 in 2023-01 and 2250.5 in 2023-02.
func BillingWorkbookRows() [][]any {
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }
	return [][]any{
		{"Listado de Facturación de Molinos"},
		{nil},
		{"Tipo", "Comprobante", "Fecha", "Molino", "Razón Social", "Zona", "Producto", "Flete", "Unidades", "Envase Kg", "Total Kg", "Monto ARS"},
		{"FC", "A-1", day(2023, 1, 15), 1, "Cliente A", "Norte", " Harina 000 ", "Si", 4, 25, 100, 1000},
		{"FC", "A-2", "sin fecha", 1, "Cliente B", "Norte", "Harina 000", "Si", 2, 25, 50, 500},
		{"FC", "A-3", day(2023, 2, 1), 2, "Cliente C", "Sur", "Harina 0000", "No", 0, 25, 0, 2000},
		{"NC", "A-4", "2023-02-20", 2, "Cliente A", "Sur", "Harina 000", "No", 1, 25, 25, 250.5},
	}
}

// GeographicWorkbookRows has two province blocks and a trailing partial
// block. Four distinct records survive across two provinces.
func GeographicWorkbookRows() [][]any {
	return [][]any{
		{nil, "Buenos Aires", nil, nil, "Córdoba", nil, nil, "Partial"},
		{nil, "Zona", "CP", "Ciudad", "Zona", "CP", "Ciudad", "Zona"},
		{nil, "Z1", 1900, "La Plata", "Z2", 5000, "Córdoba"},
		{nil, "Z1", "7600 ", " Mar del Plata", "Z2", 5800, "Río Cuarto"},
		{nil, "Z1", 1900, "La Plata", "Z2", 5800, nil},
	}
}

// WriteInputWorkbooks writes both fixture workbooks into dir and returns their paths
func WriteInputWorkbooks(t *testing.T, dir string) (billing, geographic string) {
	t.Helper()
	billing = WriteWorkbook(t, dir, BillingWorkbookName, "Facturacion", BillingWorkbookRows())
	geographic = WriteWorkbook(t, dir, GeographicWorkbookName, "Geografia", GeographicWorkbookRows())
	return billing, geographic
}
