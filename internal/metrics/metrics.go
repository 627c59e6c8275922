// Package metrics derives ratios from the base figures of a FinancialRecord.
package metrics

import (
	"fmt"

	"fjacquet/bilanci/internal/models"
)

// Derive returns r with net income imputed when missing and every ratio
// recomputed from the base fields. Applying it twice is a no-op.
//
// Debt to equity divides current liabilities by equity because the record
// has no total liabilities figure.
func Derive(r models.FinancialRecord) models.FinancialRecord {
	if r.NetIncome == 0 && r.TotalRevenue > 0 && r.TotalCosts > 0 {
		r.NetIncome = r.TotalRevenue - r.TotalCosts
	}

	r.EBITDA = r.NetIncome + r.Amortization
	r.NetMargin = ratio(r.NetIncome, r.TotalRevenue)
	r.ROI = ratio(r.NetIncome, r.TotalAssets)
	r.CurrentRatio = ratio(r.CurrentAssets, r.CurrentLiabilities)
	r.DebtToEquity = ratio(r.CurrentLiabilities, r.TotalEquity)
	return r
}

func ratio(num, den float64) float64 {
	if den > 0 {
		return num / den
	}
	return 0
}

// Insight thresholds.
const (
	HealthyNetMargin    = 0.1
	HealthyCurrentRatio = 2.0
	LowCurrentRatio     = 1.0
	HighROI             = 0.15
)

// Insights reads the derived ratios of r into short Italian comments.
// A zero current ratio, which is what a record without liabilities has,
// reads as a liquidity warning.
func Insights(r models.FinancialRecord) []models.Insight {
	insights := []models.Insight{}

	switch {
	case r.NetMargin > HealthyNetMargin:
		insights = append(insights, models.Insight{
			Kind:        models.InsightPositive,
			Title:       "Margine Positivo",
			Description: fmt.Sprintf("Il margine netto del %.1f%% indica una buona redditività.", r.NetMargin*100),
		})
	case r.NetMargin < 0:
		insights = append(insights, models.Insight{
			Kind:        models.InsightNegative,
			Title:       "Perdite",
			Description: "L'azienda sta registrando perdite. Rivedere la struttura dei costi.",
		})
	}

	switch {
	case r.CurrentRatio > HealthyCurrentRatio:
		insights = append(insights, models.Insight{
			Kind:        models.InsightPositive,
			Title:       "Buona Liquidità",
			Description: fmt.Sprintf("Il current ratio di %.2f indica una solida posizione finanziaria.", r.CurrentRatio),
		})
	case r.CurrentRatio < LowCurrentRatio:
		insights = append(insights, models.Insight{
			Kind:        models.InsightWarning,
			Title:       "Attenzione Liquidità",
			Description: "Il current ratio basso potrebbe indicare problemi di liquidità a breve termine.",
		})
	}

	if r.ROI > HighROI {
		insights = append(insights, models.Insight{
			Kind:        models.InsightPositive,
			Title:       "ROI Elevato",
			Description: fmt.Sprintf("Un ROI del %.1f%% indica un buon rendimento degli investimenti.", r.ROI*100),
		})
	}
	return insights
}
