package finance

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/vicanso/go-charts/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// Renderer draws chart series as PNG images and caches the result briefly.
type Renderer struct {
	width  int
	height int
	cache  *imageCache
}

func NewRenderer(cacheTTL time.Duration) *Renderer {
	return &Renderer{width: 800, height: 480, cache: newImageCache(cacheTTL)}
}

// BarPNG renders a one-period bar chart.
func (r *Renderer) BarPNG(s BarSeries, title string) ([]byte, error) {
	if len(s.Labels) == 0 {
		return nil, errors.New("no categories to plot")
	}
	cacheKey, keyErr := chartKey("bar", title, s)
	if keyErr == nil {
		if img, ok := r.cache.get(cacheKey); ok {
			return img, nil
		}
	}
	values := make([]float64, len(s.Dataset.Values))
	for i, v := range s.Dataset.Values {
		values[i] = v
		if !isFinite(v) {
			values[i] = charts.GetNullValue()
		}
	}
	yMin := 0.0
	painter, err := charts.BarRender([][]float64{values},
		charts.TitleTextOptionFunc(title, s.Dataset.Label),
		charts.XAxisDataOptionFunc(s.Labels),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, DivideCount: 5}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(r.width),
		charts.HeightOptionFunc(r.height),
	)
	if err != nil {
		return nil, err
	}
	img, err := painter.Bytes()
	if err != nil {
		return nil, err
	}
	if keyErr == nil {
		r.cache.set(cacheKey, img)
	}
	return img, nil
}

// TrendPNG renders one line per category across periods; nil points are left as gaps.
func (r *Renderer) TrendPNG(s TrendSeries, title string) ([]byte, error) {
	if len(s.Labels) == 0 || len(s.Datasets) == 0 {
		return nil, errors.New("no periods to plot")
	}
	cacheKey, keyErr := chartKey("trend", title, s)
	if keyErr == nil {
		if img, ok := r.cache.get(cacheKey); ok {
			return img, nil
		}
	}
	values := make([][]float64, 0, len(s.Datasets))
	names := make([]string, 0, len(s.Datasets))
	for _, ds := range s.Datasets {
		line := make([]float64, len(ds.Values))
		for i, v := range ds.Values {
			if v == nil {
				line[i] = charts.GetNullValue()
				continue
			}
			line[i] = *v
		}
		values = append(values, line)
		names = append(names, ds.Label)
	}
	seriesList := charts.NewSeriesListDataFromValues(values, charts.ChartTypeLine)
	for i := range seriesList {
		seriesList[i].Name = names[i]
	}
	yMin := 0.0
	painter, err := charts.Render(charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc(title),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: s.Labels, BoundaryGap: charts.FalseFlag()}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names, Top: charts.PositionTop}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(r.width),
		charts.HeightOptionFunc(r.height),
	)
	if err != nil {
		return nil, err
	}
	img, err := painter.Bytes()
	if err != nil {
		return nil, err
	}
	if keyErr == nil {
		r.cache.set(cacheKey, img)
	}
	return img, nil
}

func chartKey(kind, title string, series any) (string, error) {
	b, err := msgpack.Marshal(struct {
		Kind   string
		Title  string
		Series any
	}{kind, title, series})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
