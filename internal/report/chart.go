package report

import (
	"bytes"
	"fmt"

	"github.com/mauv0809/court-ledger/internal/ranking"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	barWidth   = 40
	barSpacing = 20
	minWidth   = 400
	chartH     = 400
)

var tierColors = map[ranking.Tier]drawing.Color{
	ranking.TierDiamond:  drawing.ColorFromHex("4fc3f7"),
	ranking.TierPlatinum: drawing.ColorFromHex("90a4ae"),
	ranking.TierGold:     drawing.ColorFromHex("ffca28"),
	ranking.TierSilver:   drawing.ColorFromHex("bdbdbd"),
	ranking.TierBronze:   drawing.ColorFromHex("a1887f"),
}

// WinRateChart renders the leaderboard as a PNG bar chart of win rates,
// coloured by tier.
func WinRateChart(entries []ranking.Entry, title string) ([]byte, error) {
	if len(entries) == 0 {
		return renderNoDataPlaceholder("No results for this month")
	}

	bars := make([]chart.Value, len(entries))
	for i, e := range entries {
		bars[i] = chart.Value{
			Label: e.Name,
			Value: e.WinRate,
			Style: chart.Style{
				FillColor:   tierColors[e.Tier],
				StrokeColor: tierColors[e.Tier],
			},
		}
	}

	graph := chart.BarChart{
		Title:      title,
		Width:      max(minWidth, len(entries)*(barWidth+barSpacing)+120),
		Height:     chartH,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		YAxis: chart.YAxis{
			Name:           "Win rate (%)",
			Range:          &chart.ContinuousRange{Min: 0, Max: 100},
			ValueFormatter: func(v any) string { return fmt.Sprintf("%.0f", v) },
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func renderNoDataPlaceholder(msg string) ([]byte, error) {
	graph := chart.Chart{
		Width:  minWidth,
		Height: 200,
		// Render refuses a chart without a visible series.
		Series: []chart.Series{
			chart.ContinuousSeries{
				Style:   chart.Style{StrokeColor: drawing.ColorTransparent},
				XValues: []float64{0, 1},
				YValues: []float64{0, 1},
			},
		},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, chartDefaults chart.Style) {
				r.SetFontColor(drawing.ColorBlack)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render placeholder: %w", err)
	}
	return buffer.Bytes(), nil
}
