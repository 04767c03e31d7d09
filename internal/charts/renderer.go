package charts

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Krimson/patient-monitor/internal/models"
)

// Renderer - внешний сервис статических снимков графиков. Отдельный
// отказ захвата терпим: вызывающая сторона подставляет nil вместо
// изображения.
type Renderer interface {
	Capture(ctx context.Context, lead models.Lead, samples []models.EcgSample) ([]byte, error)
}

// renderRequest - запрос на отрисовку одного графика отведения
type renderRequest struct {
	Title   string             `json:"title"`
	Samples []models.EcgSample `json:"samples"`
}

// HTTPRenderer рендерит графики через HTTP-сервис, возвращающий PNG
type HTTPRenderer struct {
	http *resty.Client
}

// NewHTTPRenderer создает клиент сервиса отрисовки
func NewHTTPRenderer(baseURL string, timeout time.Duration) *HTTPRenderer {
	return &HTTPRenderer{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout),
	}
}

// Capture запрашивает снимок графика одного отведения
func (r *HTTPRenderer) Capture(ctx context.Context, lead models.Lead, samples []models.EcgSample) ([]byte, error) {
	resp, err := r.http.R().
		SetContext(ctx).
		SetBody(&renderRequest{Title: lead.String(), Samples: samples}).
		Post("/render")
	if err != nil {
		return nil, fmt.Errorf("chart capture failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("chart renderer returned %s", resp.Status())
	}
	return resp.Body(), nil
}
