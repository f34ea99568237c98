package dataprocessing

import (
	"context"
	"log/slog"
	"strings"

	"molidata/pkg/contracts/domain"
)

// Layout of the wide geographic sheet: row 0 names a province every three
// columns starting at column 1, row 1 holds sub-headers, data starts at row 2.
const (
	geoFirstBlockColumn = 1
	geoBlockWidth       = 3
	geoDataStartRow     = 2
)

// GeographicReshaper unpivots the wide province/postal-code/city layout
// into a long table
type GeographicReshaper struct {
	logger *slog.Logger
}

// NewGeographicReshaper creates a reshaper
func NewGeographicReshaper(logger *slog.Logger) *GeographicReshaper {
	if logger == nil {
		logger = slog.Default()
	}
	return &GeographicReshaper{logger: logger}
}

// Reshape walks every complete three-column block whose province cell is
// set and emits one record per data row where both postal code and city
// are non-empty. Duplicate triples are removed keeping the first
// occurrence. Rows shorter than the widest row read missing cells as empty.
func (g *GeographicReshaper) Reshape(ctx context.Context, grid [][]string) []domain.GeographicRecord {
	width := 0
	for _, row := range grid {
		width = max(width, len(row))
	}

	var (
		records []domain.GeographicRecord
		seen    = make(map[domain.GeographicRecord]struct{})
		blocks  int
	)

	for col := geoFirstBlockColumn; col+geoBlockWidth-1 < width; col += geoBlockWidth {
		province := gridCell(grid, 0, col)
		if strings.TrimSpace(province) == "" {
			continue
		}
		blocks++

		for r := geoDataStartRow; r < len(grid); r++ {
			postal := strings.TrimSpace(gridCell(grid, r, col+1))
			city := strings.TrimSpace(gridCell(grid, r, col+2))
			if postal == "" || city == "" {
				continue
			}

			rec := domain.GeographicRecord{Province: province, PostalCode: postal, City: city}
			if _, dup := seen[rec]; dup {
				continue
			}
			seen[rec] = struct{}{}
			records = append(records, rec)
		}
	}

	provinces, cities := GeographicStats(records)
	g.logger.InfoContext(ctx, "Geographic table reshaped",
		slog.Int("blocks", blocks),
		slog.Int("records", len(records)),
		slog.Int("provinces", provinces),
		slog.Int("cities", cities))

	return records
}

// GeographicStats counts distinct provinces and distinct cities
func GeographicStats(records []domain.GeographicRecord) (provinces, cities int) {
	p := make(map[string]struct{})
	c := make(map[string]struct{})
	for _, r := range records {
		p[r.Province] = struct{}{}
		c[r.City] = struct{}{}
	}
	return len(p), len(c)
}

func gridCell(grid [][]string, r, c int) string {
	if r < 0 || r >= len(grid) {
		return ""
	}
	return cell(grid[r], c)
}
