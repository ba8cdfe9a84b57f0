// Package history serves price histories: synthetic bars for fixture symbols,
// live daily bars for everything else.
package history

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
)

// periodDays maps a period to its synthetic length. Other periods use defaultDays.
var periodDays = map[string]int{
	"1d":  1,
	"5d":  5,
	"1mo": 30,
	"3mo": 90,
	"6mo": 180,
	"1y":  365,
	"2y":  730,
	"5y":  1825,
}

const (
	defaultDays = 365

	startFactor = 0.9
	maxDrift    = 0.05

	minVolume = 20_000_000
	maxVolume = 80_000_000
)

// DaysFor returns the synthetic series length for period
func DaysFor(period string) int {
	if d, ok := periodDays[period]; ok {
		return d
	}
	return defaultDays
}

// Synthesizer generates random-walk OHLCV series. Safe for concurrent use.
type Synthesizer struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewSynthesizer creates a time-seeded synthesizer
func NewSynthesizer() *Synthesizer {
	return NewSeededSynthesizer(time.Now().UnixNano())
}

// NewSeededSynthesizer creates a reproducible synthesizer
func NewSeededSynthesizer(seed int64) *Synthesizer {
	return &Synthesizer{
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now,
	}
}

// WithClock overrides the reference time
func (s *Synthesizer) WithClock(now func() time.Time) *Synthesizer {
	s.now = now
	return s
}

// Synthesize builds a daily series ending today. It starts at 90% of basePrice
// and moves by a uniform change in [-5%, +5%] each day.
func (s *Synthesizer) Synthesize(basePrice float64, period string) []contracts.PriceBar {
	days := DaysFor(period)
	date := s.now().AddDate(0, 0, -days)
	price := basePrice * startFactor

	s.mu.Lock()
	defer s.mu.Unlock()

	bars := make([]contracts.PriceBar, 0, days)
	for i := 0; i < days; i++ {
		change := (s.rng.Float64()*2 - 1) * maxDrift
		price *= 1 + change

		bars = append(bars, contracts.PriceBar{
			Date:   date,
			Open:   round2(price * 0.998),
			High:   round2(price * 1.002),
			Low:    round2(price * 0.996),
			Close:  round2(price),
			Volume: minVolume + s.rng.Int63n(maxVolume-minVolume+1),
		})
		date = date.AddDate(0, 0, 1)
	}
	return bars
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
