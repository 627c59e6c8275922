// Package models holds the value types produced by the extraction engine.
package models

// Field names a base or derived figure of a FinancialRecord. The string
// value is the JSON key used for export and for mapping payloads.
type Field string

const (
	FieldTotalRevenue       Field = "totalRevenue"
	FieldTotalCosts         Field = "totalCosts"
	FieldNetIncome          Field = "netIncome"
	FieldEBITDA             Field = "ebitda"
	FieldCurrentAssets      Field = "currentAssets"
	FieldCurrentLiabilities Field = "currentLiabilities"
	FieldTotalAssets        Field = "totalAssets"
	FieldTotalEquity        Field = "totalEquity"
	FieldAmortization       Field = "amortization"

	FieldNetMargin    Field = "netMargin"
	FieldROI          Field = "roi"
	FieldCurrentRatio Field = "currentRatio"
	FieldDebtToEquity Field = "debtToEquity"
)

// ExtractedFields lists the eight fields searched for in documents, in
// keyword table order. Loose matching relies on this order for its
// first-field-wins rule.
var ExtractedFields = []Field{
	FieldTotalRevenue,
	FieldTotalCosts,
	FieldNetIncome,
	FieldCurrentAssets,
	FieldTotalAssets,
	FieldCurrentLiabilities,
	FieldTotalEquity,
	FieldAmortization,
}

// BaseFields are the fields that make up a record before derivation, and
// the only ones a column mapping may assign.
var BaseFields = []Field{
	FieldTotalRevenue,
	FieldTotalCosts,
	FieldNetIncome,
	FieldCurrentAssets,
	FieldCurrentLiabilities,
	FieldTotalAssets,
	FieldTotalEquity,
	FieldAmortization,
}

// DerivedFields are always recomputed from the base fields.
var DerivedFields = []Field{
	FieldEBITDA,
	FieldNetMargin,
	FieldROI,
	FieldCurrentRatio,
	FieldDebtToEquity,
}

// IsDerived reports whether f is one of DerivedFields.
func IsDerived(f Field) bool {
	for _, d := range DerivedFields {
		if d == f {
			return true
		}
	}
	return false
}

// ParseField converts a JSON key into a Field, reporting whether it names a
// base field.
func ParseField(s string) (Field, bool) {
	for _, f := range BaseFields {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// HistoricalPoint is one month of the synthetic trend series. Values are
// illustrative, not forecasts.
type HistoricalPoint struct {
	Month   string `json:"month" yaml:"month"`
	Revenue int64  `json:"revenue" yaml:"revenue"`
	Costs   int64  `json:"costs" yaml:"costs"`
	Profit  int64  `json:"profit" yaml:"profit"`
}

// FinancialRecord is the canonical extraction result. Every base field is
// always present; the ratios are recomputed from the base fields.
type FinancialRecord struct {
	TotalRevenue       float64 `json:"totalRevenue" yaml:"totalRevenue"`
	TotalCosts         float64 `json:"totalCosts" yaml:"totalCosts"`
	NetIncome          float64 `json:"netIncome" yaml:"netIncome"`
	EBITDA             float64 `json:"ebitda" yaml:"ebitda"`
	CurrentAssets      float64 `json:"currentAssets" yaml:"currentAssets"`
	CurrentLiabilities float64 `json:"currentLiabilities" yaml:"currentLiabilities"`
	TotalAssets        float64 `json:"totalAssets" yaml:"totalAssets"`
	TotalEquity        float64 `json:"totalEquity" yaml:"totalEquity"`
	Amortization       float64 `json:"amortization" yaml:"amortization"`

	NetMargin    float64 `json:"netMargin" yaml:"netMargin"`
	ROI          float64 `json:"roi" yaml:"roi"`
	CurrentRatio float64 `json:"currentRatio" yaml:"currentRatio"`
	DebtToEquity float64 `json:"debtToEquity" yaml:"debtToEquity"`

	HistoricalData []HistoricalPoint `json:"historicalData" yaml:"historicalData"`
}

// Get returns the value of f, or 0 for an unknown field.
func (r FinancialRecord) Get(f Field) float64 {
	switch f {
	case FieldTotalRevenue:
		return r.TotalRevenue
	case FieldTotalCosts:
		return r.TotalCosts
	case FieldNetIncome:
		return r.NetIncome
	case FieldEBITDA:
		return r.EBITDA
	case FieldCurrentAssets:
		return r.CurrentAssets
	case FieldCurrentLiabilities:
		return r.CurrentLiabilities
	case FieldTotalAssets:
		return r.TotalAssets
	case FieldTotalEquity:
		return r.TotalEquity
	case FieldAmortization:
		return r.Amortization
	case FieldNetMargin:
		return r.NetMargin
	case FieldROI:
		return r.ROI
	case FieldCurrentRatio:
		return r.CurrentRatio
	case FieldDebtToEquity:
		return r.DebtToEquity
	}
	return 0
}

// Set assigns v to a base field. Derived fields and unknown names are ignored.
func (r *FinancialRecord) Set(f Field, v float64) {
	switch f {
	case FieldTotalRevenue:
		r.TotalRevenue = v
	case FieldTotalCosts:
		r.TotalCosts = v
	case FieldNetIncome:
		r.NetIncome = v
	case FieldCurrentAssets:
		r.CurrentAssets = v
	case FieldCurrentLiabilities:
		r.CurrentLiabilities = v
	case FieldTotalAssets:
		r.TotalAssets = v
	case FieldTotalEquity:
		r.TotalEquity = v
	case FieldAmortization:
		r.Amortization = v
	}
}

// IsEmpty reports whether every base field is zero, which is the signal
// that tabular auto-detection failed and a column mapping is needed.
func (r FinancialRecord) IsEmpty() bool {
	for _, f := range BaseFields {
		if r.Get(f) != 0 {
			return false
		}
	}
	return true
}

// ColumnMapping assigns a column index to each base field. A nil index
// means the field is not mapped.
type ColumnMapping map[Field]*int

// Column returns a pointer to i, for building mappings literally.
func Column(i int) *int {
	return &i
}
