package invoice

import "regexp"

const datePattern = `\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}`

var (
	documentWord = regexp.MustCompile(`(?i)\bfattur\w*|\binvoice`)

	euroMarker   = regexp.MustCompile(`(?i)€|\beur`)
	dollarMarker = regexp.MustCompile(`(?i)\$|\busd\b`)

	// VAT tokens stay on their line; letters are allowed so a country
	// prefix or a fiscal code survives.
	supplierVATLabel = regexp.MustCompile(`(?i)(?:p\.?\s*iva|partita\s*iva)\s*[:#]?[ \t]*([A-Za-z0-9. \t]{8,20})`)
	customerVATLabel = regexp.MustCompile(`(?i)(?:p\.?\s*iva\s*cliente|iva\s*cliente|cf\s*cliente|cod\.?\s*fiscale\s*cliente)\s*[:#]?[ \t]*([A-Za-z0-9. \t]{8,20})`)
	vatIDLine        = regexp.MustCompile(`(?i)p\.?\s*iva\b|partita\s*iva|iva\s*cliente|cf\s*cliente|cod\.?\s*fiscale|\bvat\s*(?:no\b|n\.|number|id\b|reg)|\bvat\s*[:#]?\s*[A-Za-z]{0,2}\d{8,}\b`)

	supplierLine = regexp.MustCompile(`(?im)^[ \t]*(?:(?:fornitore|supplier)\b[ \t]*[:\-]?|da[ \t]*[:\-])[ \t]*([^\s:\-].*?)[ \t]*$`)
	customerLine = regexp.MustCompile(`(?im)^[ \t]*(?:(?:cliente|destinatario|customer)\b[ \t]*[:\-]?|a[ \t]*[:\-])[ \t]*([^\s:\-].*?)[ \t]*$`)

	invoiceNumberLabel = regexp.MustCompile(`(?i)(?:fattura\s*(?:n\.|nr\.?|num\.|numero)?|numero\s*fattura|n\.?\s*fatt\.?|\bn\.)\s*[:#]?\s*([A-Za-z0-9\-/]{2,})`)

	issueDateLabel = regexp.MustCompile(`(?i)(?:data\s*(?:fattura)?|emissione)\s*[:#]?\s*(` + datePattern + `)`)
	dueDateLabel   = regexp.MustCompile(`(?i)(?:scadenza|data\s*scadenza|pagamento\s*entro)\s*[:#]?\s*(` + datePattern + `)`)
	anyDate        = regexp.MustCompile(`\b(` + datePattern + `)\b`)
	wholeDate      = regexp.MustCompile(`^` + datePattern + `$`)

	amountPattern = regexp.MustCompile(`[+-]?\d{1,3}(?:[.,]\d{3})*[.,]\d{2}|\d+(?:[.,]\d{2})?`)

	subtotalLabel    = regexp.MustCompile(`(?i)imponibil|subtot`)
	taxLabel         = regexp.MustCompile(`(?i)\biva\b|imposta|\bvat\b`)
	strongTotalLabel = regexp.MustCompile(`(?i)totale\s*(?:fattura|documento)|da\s*pagare|tot\.?\s*doc`)
	weakTotalLabel   = regexp.MustCompile(`(?i)\btotal`)

	itemHeaderDescription = regexp.MustCompile(`(?i)descrizion|description|articol|prodotto`)
	itemHeaderFigures     = regexp.MustCompile(`(?i)q\.?t|quantit|qty|prezz|unit|importo|totale`)
	itemTableEnd          = regexp.MustCompile(`(?i)^(?:total|subtot|imponibile|iva\b|vat\b)`)
	columnGap             = regexp.MustCompile(`\s{2,}`)
	percentage            = regexp.MustCompile(`(\d{1,2}(?:[.,]\d+)?)\s*%`)
)
