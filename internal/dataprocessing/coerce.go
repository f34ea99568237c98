package dataprocessing

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"molidata/pkg/contracts/domain"
)

// maxExcelSerial is the serial of 9999-12-31, the last date Excel can store
const maxExcelSerial = 2958465

var thousandsPattern = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// textDateLayouts are tried in order for dates stored as text.
// Day-first layouts follow the export's locale.
var textDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"02/01/2006",
	"2/1/2006",
	"02/01/2006 15:04:05",
	"02-01-2006",
	"2-1-2006",
}

// TypeCoercer converts raw cell text into typed values. Failures yield an
// absent value and never an error, so one bad cell never aborts a row.
type TypeCoercer struct {
	date1904 bool
}

// NewTypeCoercer creates a coercer. date1904 selects the 1904 serial epoch
// used by some workbooks for numeric dates.
func NewTypeCoercer(date1904 bool) *TypeCoercer {
	return &TypeCoercer{date1904: date1904}
}

// Float parses a numeric cell. Plain decimals, scientific notation and
// comma thousands grouping are accepted; NaN and infinities are not.
func (c *TypeCoercer) Float(raw string) domain.NullFloat {
	s := strings.TrimSpace(raw)
	if s == "" {
		return domain.NullFloat{}
	}
	if thousandsPattern.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	}
	if !looksNumeric(s) {
		return domain.NullFloat{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return domain.NullFloat{}
	}
	return domain.Float(v)
}

// Date parses a date cell given either as an Excel serial number or as
// text in one of the accepted layouts. Time of day is discarded.
func (c *TypeCoercer) Date(raw string) domain.NullDate {
	s := strings.TrimSpace(raw)
	if s == "" {
		return domain.NullDate{}
	}

	if looksNumeric(s) {
		serial, err := strconv.ParseFloat(s, 64)
		if err != nil || serial < 1 || serial > maxExcelSerial {
			return domain.NullDate{}
		}
		t, err := excelize.ExcelDateToTime(serial, c.date1904)
		if err != nil {
			return domain.NullDate{}
		}
		return domain.Date(t)
	}

	for _, layout := range textDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return domain.Date(t)
		}
	}
	return domain.NullDate{}
}

// looksNumeric rejects inputs strconv accepts but a spreadsheet never
// holds as a number: NaN, Inf, hex floats and digit separators.
func looksNumeric(s string) bool {
	hasDigit := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r == '.':
		case r == '+' || r == '-':
			if i != 0 && s[i-1] != 'e' && s[i-1] != 'E' {
				return false
			}
		case r == 'e' || r == 'E':
			if !hasDigit {
				return false
			}
		default:
			return false
		}
	}
	return hasDigit
}
