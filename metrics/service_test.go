package metrics_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/adscout/metrics"
	"github.com/use-agent/adscout/models"
)

type stubService struct {
	result *models.ProductResult
	images []string
	err    error
}

func (s stubService) Extract(context.Context, string, string) (*models.ProductResult, error) {
	return s.result, s.err
}

func (s stubService) Images(context.Context, string) ([]string, error) {
	return s.images, s.err
}

func TestInstrument_Extract(t *testing.T) {
	m := metrics.New()
	svc := metrics.Instrument(stubService{result: &models.ProductResult{
		Product: models.Product{Images: []string{"https://x.com/a.jpg", "https://x.com/b.jpg"}},
		Tier:    models.TierDynamic,
	}}, m)

	result, err := svc.Extract(context.Background(), "https://x.com", models.FetchModeAuto)
	require.NoError(t, err)
	assert.Equal(t, models.TierDynamic, result.Tier)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExtractionsTotal.WithLabelValues("extract", models.TierDynamic, "ok")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ImagesPerProduct))
}

func TestInstrument_ExtractFailure(t *testing.T) {
	m := metrics.New()
	svc := metrics.Instrument(stubService{
		err: models.NewScrapeError(models.ErrCodeScrape, "failed to scrape product data", nil),
	}, m)

	_, err := svc.Extract(context.Background(), "https://x.com", models.FetchModeAuto)
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExtractionsTotal.WithLabelValues("extract", "none", models.ErrCodeScrape)))
}

func TestInstrument_Images(t *testing.T) {
	m := metrics.New()
	svc := metrics.Instrument(stubService{images: []string{"https://x.com/a.jpg"}}, m)

	images, err := svc.Images(context.Background(), "https://x.com")
	require.NoError(t, err)
	assert.Len(t, images, 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExtractionsTotal.WithLabelValues("images", models.TierDynamic, "ok")))
}

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := metrics.New(), metrics.New()
	a.ExtractionsTotal.WithLabelValues("extract", "static", "ok").Inc()

	assert.Equal(t, 0.0, testutil.ToFloat64(b.ExtractionsTotal.WithLabelValues("extract", "static", "ok")))
}
