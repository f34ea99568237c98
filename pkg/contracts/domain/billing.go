package domain

import "time"

// Canonical column names of a normalized billing record, in sheet order
const (
	ColTransactionType     = "transaction_type"
	ColVoucherID           = "voucher_id"
	ColDate                = "date"
	ColMillID              = "mill_id"
	ColCustomerName        = "customer_name"
	ColZone                = "zone"
	ColProduct             = "product_raw"
	ColFreightFlag         = "freight_flag"
	ColUnits               = "units"
	ColPackagingWeightKg   = "packaging_weight_kg"
	ColTotalWeightKg       = "total_weight_kg"
	ColAmountLocalCurrency = "amount_local_currency"
)

// CanonicalColumns lists the twelve canonical fields in the order they appear in the raw sheet
var CanonicalColumns = []string{
	ColTransactionType,
	ColVoucherID,
	ColDate,
	ColMillID,
	ColCustomerName,
	ColZone,
	ColProduct,
	ColFreightFlag,
	ColUnits,
	ColPackagingWeightKg,
	ColTotalWeightKg,
	ColAmountLocalCurrency,
}

// BillingRecord is one normalized transaction row. Date is always set;
// rows whose date cannot be parsed never become records.
type BillingRecord struct {
	TransactionType     string    `json:"transaction_type"`
	VoucherID           string    `json:"voucher_id"`
	Date                time.Time `json:"date"`
	MillID              NullFloat `json:"mill_id"`
	CustomerName        string    `json:"customer_name"`
	Zone                string    `json:"zone"`
	ProductRaw          string    `json:"product_raw"`
	FreightFlag         string    `json:"freight_flag"`
	Units               NullFloat `json:"units"`
	PackagingWeightKg   NullFloat `json:"packaging_weight_kg"`
	TotalWeightKg       NullFloat `json:"total_weight_kg"`
	AmountLocalCurrency NullFloat `json:"amount_local_currency"`
}

// RecordFeatures holds the values computed from a BillingRecord
type RecordFeatures struct {
	Year          int       `json:"year"`
	Month         int       `json:"month"`
	Quarter       int       `json:"quarter"`
	Weekday       int       `json:"weekday"` // Monday=0 ... Sunday=6
	PricePerKg    NullFloat `json:"price_per_kg"`
	FreightBinary int       `json:"freight_binary"`
	ProductClean  string    `json:"product_clean"`
}

// EnrichedRecord is a billing record together with its derived features
type EnrichedRecord struct {
	BillingRecord
	RecordFeatures
}

// MillKey renders the mill identifier as a grouping key, "" when absent
func (r BillingRecord) MillKey() string {
	return r.MillID.String()
}
