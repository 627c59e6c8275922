// Package history synthesizes illustrative monthly trends from annual
// totals. The output is decorative chart data: it is seasonal noise around
// the annual average, not a forecast and not a reconstruction of real
// monthly figures.
package history

import (
	"math"
	"math/rand/v2"
	"sync"

	"fjacquet/bilanci/internal/models"
)

// Months are the Italian month abbreviations used as point labels.
var Months = [12]string{"Gen", "Feb", "Mar", "Apr", "Mag", "Giu", "Lug", "Ago", "Set", "Ott", "Nov", "Dic"}

// Defaults used when the record has no positive annual totals.
const (
	DefaultMonthlyRevenue = 100000.0
	DefaultMonthlyCosts   = 80000.0

	seasonalAmplitude = 0.15
	jitterWidth       = 0.1
	costSensitivity   = 0.7
)

// RandomSource yields uniform values in [0, 1).
type RandomSource interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// Synthesizer draws the jitter of the monthly series and the simulated change
// indicators from a RandomSource. It is safe for concurrent use.
type Synthesizer struct {
	mu  sync.Mutex
	src RandomSource
}

// NewSynthesizer returns a Synthesizer over src. A nil src uses the process
// wide generator, so output differs on every call.
func NewSynthesizer(src RandomSource) *Synthesizer {
	if src == nil {
		src = globalSource{}
	}
	return &Synthesizer{src: src}
}

// NewSeededSynthesizer returns a reproducible Synthesizer.
func NewSeededSynthesizer(seed uint64) *Synthesizer {
	return NewSynthesizer(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

func (s *Synthesizer) float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Float64()
}

// Synthesize returns twelve monthly points. Month i varies around the
// annual average by sin(2πi/12)*0.15 plus a uniform jitter in [-0.05, 0.05);
// costs follow at 70% of that variation. Values are clamped at zero and
// rounded to integers.
func (s *Synthesizer) Synthesize(r models.FinancialRecord) []models.HistoricalPoint {
	baseRevenue := DefaultMonthlyRevenue
	if r.TotalRevenue > 0 {
		baseRevenue = r.TotalRevenue / 12
	}
	baseCosts := DefaultMonthlyCosts
	if r.TotalCosts > 0 {
		baseCosts = r.TotalCosts / 12
	}

	points := make([]models.HistoricalPoint, 0, len(Months))
	for i, month := range Months {
		variation := math.Sin(float64(i)/12*2*math.Pi)*seasonalAmplitude + (s.float64()*jitterWidth - jitterWidth/2)
		revenue := math.Max(0, baseRevenue*(1+variation))
		costs := math.Max(0, baseCosts*(1+variation*costSensitivity))
		points = append(points, models.HistoricalPoint{
			Month:   month,
			Revenue: round(revenue),
			Costs:   round(costs),
			Profit:  round(revenue - costs),
		})
	}
	return points
}

// Changes simulates period-over-period movements for the headline figures.
// Revenue and EBITDA growth fall in [-12%, +28%) and are zero when the
// figure itself is zero; margin moves within [-2.5, +2.5) points and ROI
// within [-3.2, +4.8) points.
func (s *Synthesizer) Changes(r models.FinancialRecord) models.ChangeIndicators {
	return models.ChangeIndicators{
		RevenueChange:   s.growth(r.TotalRevenue),
		EBITDAChange:    s.growth(r.EBITDA),
		NetMarginChange: (s.float64() - 0.5) * 5,
		ROIChange:       (s.float64() - 0.4) * 8,
	}
}

func (s *Synthesizer) growth(v float64) float64 {
	if v == 0 {
		return 0
	}
	return (s.float64() - 0.3) * 0.4 * 100
}

// round rounds half up, matching chart libraries that expect 2.5 -> 3 and
// -2.5 -> -2.
func round(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}
