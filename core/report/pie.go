package report

import (
	"fmt"
	"os"

	chart "github.com/wcharczuk/go-chart/v2"
	"go.uber.org/zap"

	"waste-cost/core/types"
	"waste-cost/internal/errors"
	"waste-cost/internal/logging"
)

// Pie renders s as a pie chart; each slice is labelled with its key and
// its share of the total to one decimal place.
func (r *Renderer) Pie(s *types.Series, title, file string) (string, error) {
	if s.Len() == 0 {
		return "", errors.Input("no data to plot for " + title)
	}
	total := s.Total()
	if !total.IsPositive() {
		return "", errors.Input("pie chart needs a positive total for " + title)
	}

	points := s.Points()
	values := make([]chart.Value, len(points))
	for i, p := range points {
		share := p.Value.Div(total).InexactFloat64() * 100
		values[i] = chart.Value{
			Label: PieLabel(p.Key, share),
			Value: p.Value.InexactFloat64(),
		}
	}

	pie := chart.PieChart{
		Title:  title,
		Width:  r.width,
		Height: r.height,
		Values: values,
	}

	path, err := r.prepare(file)
	if err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", errors.OutputWrite(path, err)
	}
	defer f.Close()

	if err := pie.Render(chart.PNG, f); err != nil {
		return "", errors.OutputWrite(path, err)
	}
	if err := f.Close(); err != nil {
		return "", errors.OutputWrite(path, err)
	}
	logging.Info("chart written", zap.String("path", path))
	return path, nil
}

// PieLabel formats a slice label as "<key> (<share>%)"
func PieLabel(key string, share float64) string {
	return fmt.Sprintf("%s (%.1f%%)", key, share)
}
