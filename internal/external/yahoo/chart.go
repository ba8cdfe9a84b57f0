package yahoo

import (
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
)

// fetchChart pulls daily bars through finance-go
func fetchChart(symbol string, start, end time.Time) ([]contracts.PriceBar, error) {
	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}

	var bars []contracts.PriceBar
	iter := chart.Get(params)
	for iter.Next() {
		bars = append(bars, convertBar(iter.Bar()))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return bars, nil
}

// convertBar maps a finance-go bar (decimal prices, unix timestamp) to a PriceBar
func convertBar(b *finance.ChartBar) contracts.PriceBar {
	open, _ := b.Open.Float64()
	high, _ := b.High.Float64()
	low, _ := b.Low.Float64()
	closePrice, _ := b.Close.Float64()

	return contracts.PriceBar{
		Date:   time.Unix(int64(b.Timestamp), 0).UTC(),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: int64(b.Volume),
	}
}
