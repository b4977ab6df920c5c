// Package chart renders price history and correlation analytics as PNG
// images.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"MarketLens/internal/analytics"
	"MarketLens/internal/model"
)

// Brand colors for the tracked symbols. Symbols outside these maps fall
// back to plain blue for crypto and plain red for stocks.
var (
	cryptoLineColors = map[string]color.RGBA{
		"BTC": {R: 0xf7, G: 0x93, B: 0x1a, A: 0xff},
		"ETH": {R: 0x62, G: 0x7e, B: 0xea, A: 0xff},
		"SOL": {R: 0x00, G: 0xff, B: 0xbd, A: 0xff},
	}
	stockLineColors = map[string]color.RGBA{
		"NVDA": {R: 0x76, G: 0xb9, B: 0x00, A: 0xff},
		"AMD":  {R: 0xed, G: 0x1c, B: 0x24, A: 0xff},
		"COIN": {R: 0x00, G: 0x52, B: 0xff, A: 0xff},
	}

	defaultCryptoColor = color.RGBA{B: 0xff, A: 0xff}
	defaultStockColor  = color.RGBA{R: 0xff, A: 0xff}
)

// lineDashes cycles through solid, dashed, and dotted strokes so series
// stay distinguishable in grayscale.
var lineDashes = [][]vg.Length{
	nil,
	{vg.Points(6), vg.Points(3)},
	{vg.Points(2), vg.Points(2)},
}

// PriceMovement draws every crypto and stock series on one time axis,
// each rescaled so its first observation plots as 100.
func PriceMovement(crypto, stocks map[string][]model.Point, path string) error {
	if len(crypto) == 0 || len(stocks) == 0 {
		return errors.New("price chart: need at least one crypto and one stock series")
	}

	p := plot.New()
	p.Title.Text = "Cryptocurrency vs Tech Stock Price Movements (Normalized to Base 100)"
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Index (Base = 100)"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.Left = true

	if err := addPriceLines(p, crypto, " (Crypto)", cryptoLineColors, defaultCryptoColor); err != nil {
		return err
	}
	if err := addPriceLines(p, stocks, " (Stock)", stockLineColors, defaultStockColor); err != nil {
		return err
	}
	return savePlot(p, 14*vg.Inch, 8*vg.Inch, path)
}

func addPriceLines(p *plot.Plot, series map[string][]model.Point, suffix string, colors map[string]color.RGBA, fallback color.RGBA) error {
	for i, symbol := range sortedKeys(series) {
		xys := normalized(series[symbol])
		if len(xys) == 0 {
			log.Printf("[WARN] %s: no plottable points, skipping series", symbol)
			continue
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("plot %s: %w", symbol, err)
		}
		line.Width = vg.Points(2)
		line.Dashes = lineDashes[i%len(lineDashes)]
		c, ok := colors[symbol]
		if !ok {
			c = fallback
		}
		line.Color = c
		p.Add(line)
		p.Legend.Add(symbol+suffix, line)
	}
	return nil
}

// normalized rescales a series so its first value plots as 100. X values
// are unix seconds so TimeTicks can label them as dates. Series that are
// empty or start at a non-positive price are dropped.
func normalized(points []model.Point) plotter.XYs {
	if len(points) == 0 || points[0].Value <= 0 {
		return nil
	}
	first := points[0].Value
	xys := make(plotter.XYs, 0, len(points))
	for _, pt := range points {
		t, err := pt.Date.Time()
		if err != nil {
			continue
		}
		xys = append(xys, plotter.XY{X: float64(t.Unix()), Y: pt.Value / first * 100})
	}
	return xys
}

// correlationGrid adapts a pair-key correlation map to the heatmap grid.
// Columns are stocks, rows are cryptos stored bottom to top; pairs absent
// from the map read as zero.
type correlationGrid struct {
	stocks  []string
	cryptos []string
	corr    map[string]float64
}

func (g correlationGrid) Dims() (c, r int) { return len(g.stocks), len(g.cryptos) }
func (g correlationGrid) X(c int) float64  { return float64(c) }
func (g correlationGrid) Y(r int) float64  { return float64(r) }
func (g correlationGrid) Z(c, r int) float64 {
	return g.corr[analytics.PairKey(g.cryptos[r], g.stocks[c])]
}

// CorrelationHeatmap draws the crypto-by-stock correlation matrix on a
// red-to-green diverging scale fixed to [-1, 1], with each cell annotated
// by its coefficient.
func CorrelationHeatmap(correlations map[string]float64, path string) error {
	if len(correlations) == 0 {
		return errors.New("correlation heatmap: no correlation data")
	}

	cryptoSet := make(map[string]bool)
	stockSet := make(map[string]bool)
	for pair := range correlations {
		cryptoSymbol, stockSymbol, ok := analytics.SplitPairKey(pair)
		if !ok {
			return fmt.Errorf("correlation heatmap: malformed pair key %q", pair)
		}
		cryptoSet[cryptoSymbol] = true
		stockSet[stockSymbol] = true
	}
	stocks := sortedKeys(stockSet)

	// First crypto in the top row, matching the report's reading order.
	cryptos := sortedKeys(cryptoSet)
	rows := make([]string, len(cryptos))
	for i, s := range cryptos {
		rows[len(rows)-1-i] = s
	}

	grid := correlationGrid{stocks: stocks, cryptos: rows, corr: correlations}

	pal, err := brewer.GetPalette(brewer.TypeDiverging, "RdYlGn", 11)
	if err != nil {
		return fmt.Errorf("load palette: %w", err)
	}
	h := plotter.NewHeatMap(grid, pal)
	h.Min, h.Max = -1, 1

	p := plot.New()
	p.Title.Text = "Cross-Market Correlation Heatmap"
	p.X.Label.Text = "Stock Symbols"
	p.Y.Label.Text = "Cryptocurrency Symbols"
	p.X.Padding, p.Y.Padding = 0, 0
	p.Add(h)

	xticks := make(plot.ConstantTicks, len(stocks))
	for i, s := range stocks {
		xticks[i] = plot.Tick{Value: float64(i), Label: s}
	}
	yticks := make(plot.ConstantTicks, len(rows))
	for i, s := range rows {
		yticks[i] = plot.Tick{Value: float64(i), Label: s}
	}
	p.X.Tick.Marker = xticks
	p.Y.Tick.Marker = yticks

	var cells plotter.XYLabels
	for c := range stocks {
		for r := range rows {
			cells.XYs = append(cells.XYs, plotter.XY{X: float64(c), Y: float64(r)})
			cells.Labels = append(cells.Labels, fmt.Sprintf("%.3f", grid.Z(c, r)))
		}
	}
	labels, err := plotter.NewLabels(cells)
	if err != nil {
		return fmt.Errorf("annotate heatmap: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(labels)

	return savePlot(p, 10*vg.Inch, 8*vg.Inch, path)
}

func savePlot(p *plot.Plot, w, h vg.Length, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
