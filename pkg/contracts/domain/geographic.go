package domain

// GeographicRecord is one (province, postal code, city) row of the long-format geographic table
type GeographicRecord struct {
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
}
