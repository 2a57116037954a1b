package metrics

import (
	"context"
	"time"

	"github.com/use-agent/adscout/api/handler"
	"github.com/use-agent/adscout/models"
)

// Ensure InstrumentedService implements handler.ProductService at compile time.
var _ handler.ProductService = (*InstrumentedService)(nil)

// InstrumentedService records extraction outcomes around a ProductService.
type InstrumentedService struct {
	next handler.ProductService
	m    *Metrics
}

// Instrument wraps svc so every call is counted and timed.
func Instrument(svc handler.ProductService, m *Metrics) *InstrumentedService {
	return &InstrumentedService{next: svc, m: m}
}

// Extract calls the wrapped service and labels the result with its tier.
func (s *InstrumentedService) Extract(ctx context.Context, url, mode string) (*models.ProductResult, error) {
	start := time.Now()
	result, err := s.next.Extract(ctx, url, mode)

	tier := "none"
	if err == nil && result != nil {
		tier = result.Tier
		s.m.ImagesPerProduct.Observe(float64(len(result.Images)))
	}
	s.observe("extract", tier, start, err)
	return result, err
}

// Images calls the wrapped service. The image listing always renders.
func (s *InstrumentedService) Images(ctx context.Context, url string) ([]string, error) {
	start := time.Now()
	images, err := s.next.Images(ctx, url)
	tier := "none"
	if err == nil {
		tier = models.TierDynamic
	}
	s.observe("images", tier, start, err)
	return images, err
}

func (s *InstrumentedService) observe(op, tier string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = models.ErrorCode(err)
	}
	s.m.ExtractionsTotal.WithLabelValues(op, tier, status).Inc()
	s.m.ExtractionDuration.WithLabelValues(op, tier).Observe(time.Since(start).Seconds())
}
