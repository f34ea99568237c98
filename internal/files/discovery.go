package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	apperrors "molidata/internal/errors"
	"molidata/internal/validation"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Inputs are the two workbooks a run reads
type Inputs struct {
	Billing    FileInfo
	Geographic FileInfo
}

// Discovery locates input workbooks in the raw directory
type Discovery struct {
	validator *validation.FileValidator
	logger    *slog.Logger
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(logger *slog.Logger) *Discovery {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discovery{
		validator: validation.NewFileValidator(logger),
		logger:    logger,
	}
}

// FindExcelFiles lists the .xlsx workbooks in dir sorted by name
func (d *Discovery) FindExcelFiles(dir string) ([]FileInfo, error) {
	if err := d.validator.ValidateInputDirectory(dir); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !validation.IsExcelWorkbook(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(dir, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// DiscoverInputs picks the billing and geographic workbooks in dir by
// filename keyword. The first match in name order wins; the billing pick
// is not considered for the geographic role. A missing workbook is a
// discovery error that lists the files that were available.
func (d *Discovery) DiscoverInputs(dir string, billingKeywords, geoKeywords []string) (*Inputs, error) {
	files, err := d.FindExcelFiles(dir)
	if err != nil {
		return nil, apperrors.NewDiscoveryError("failed to list input workbooks", err).
			WithContext("directory", dir)
	}

	billing, ok := firstMatch(files, billingKeywords, "")
	if !ok {
		return nil, d.missing("billing", dir, billingKeywords, files)
	}
	geo, ok := firstMatch(files, geoKeywords, billing.Path)
	if !ok {
		return nil, d.missing("geographic", dir, geoKeywords, files)
	}

	d.logger.Info("Input workbooks found",
		slog.String("billing_file", billing.Name),
		slog.String("geographic_file", geo.Name))

	return &Inputs{Billing: billing, Geographic: geo}, nil
}

func (d *Discovery) missing(role, dir string, keywords []string, files []FileInfo) error {
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}

	d.logger.Error("Input workbook not found",
		slog.String("role", role),
		slog.String("directory", dir),
		slog.Any("keywords", keywords),
		slog.Any("available_files", names))

	return apperrors.NewDiscoveryError(fmt.Sprintf("no %s workbook found in %s (available files: %s)",
		role, dir, strings.Join(names, ", ")), nil).
		WithContext("keywords", keywords).
		WithContext("available_files", names)
}

func firstMatch(files []FileInfo, keywords []string, exclude string) (FileInfo, bool) {
	for _, f := range files {
		if f.Path != exclude && MatchesKeyword(f.Name, keywords) {
			return f, true
		}
	}
	return FileInfo{}, false
}

// MatchesKeyword reports whether name contains any keyword, ignoring case
// and accents, so "Facturación" matches "facturacion"
func MatchesKeyword(name string, keywords []string) bool {
	folded := Fold(name)
	for _, kw := range keywords {
		if kw = Fold(strings.TrimSpace(kw)); kw != "" && strings.Contains(folded, kw) {
			return true
		}
	}
	return false
}

// Fold lowercases s and strips combining marks
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}
