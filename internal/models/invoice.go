package models

// InvoiceLineItem is one row of an invoice item table. Numeric columns that
// could not be identified are nil.
type InvoiceLineItem struct {
	Description string   `json:"description" yaml:"description" csv:"Descrizione"`
	Quantity    *float64 `json:"quantity" yaml:"quantity" csv:"Quantita"`
	UnitPrice   *float64 `json:"unitPrice" yaml:"unitPrice" csv:"PrezzoUnitario"`
	TaxRate     *float64 `json:"taxRate" yaml:"taxRate" csv:"AliquotaIVA"`
	Amount      *float64 `json:"amount" yaml:"amount" csv:"Importo"`
}

// InvoiceRecord is the heuristic reading of an invoice. String fields left
// empty were not found; dates are kept as matched in the source text.
type InvoiceRecord struct {
	SupplierName  string            `json:"supplierName,omitempty" yaml:"supplierName,omitempty"`
	SupplierVAT   string            `json:"supplierVat,omitempty" yaml:"supplierVat,omitempty"`
	CustomerName  string            `json:"customerName,omitempty" yaml:"customerName,omitempty"`
	CustomerVAT   string            `json:"customerVat,omitempty" yaml:"customerVat,omitempty"`
	InvoiceNumber string            `json:"invoiceNumber,omitempty" yaml:"invoiceNumber,omitempty"`
	Date          string            `json:"date,omitempty" yaml:"date,omitempty"`
	DueDate       string            `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	Currency      string            `json:"currency" yaml:"currency"`
	Subtotal      float64           `json:"subtotal" yaml:"subtotal"`
	TaxTotal      float64           `json:"taxTotal" yaml:"taxTotal"`
	Total         float64           `json:"total" yaml:"total"`
	Items         []InvoiceLineItem `json:"items" yaml:"items"`
	Confidence    int               `json:"confidence" yaml:"confidence"`
}

// DefaultMinConfidence is the score an invoice needs before callers use it.
const DefaultMinConfidence = 2

// Accepted reports whether inv is usable at the given confidence threshold.
func (inv *InvoiceRecord) Accepted(minConfidence int) bool {
	return inv != nil && inv.Confidence >= minConfidence
}
