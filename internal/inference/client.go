package inference

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
)

// PredictRequest - запрос к внешней модели интерпретации ЭКГ
type PredictRequest struct {
	EcgSignal         []float64 `json:"ecg_signal"`
	OriginalFrequency float64   `json:"original_frequency"`
	HeartRate         float64   `json:"heart_rate"`
}

// FeatureVectorSummary - сводка вектора признаков модели
type FeatureVectorSummary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Prediction - ответ модели. Поля совещательные: отказ модели никогда
// не блокирует завершение сессии.
type Prediction struct {
	Diagnosis      string               `json:"mock_diagnosis"`
	Recommendation string               `json:"mock_recommendation"`
	EcgParameters  map[string]string    `json:"mock_ecg_parameters"`
	FeatureVector  FeatureVectorSummary `json:"feature_vector_summary"`
}

// Client - HTTP-клиент сервиса интерпретации ЭКГ
type Client struct {
	http       *resty.Client
	sampleRate float64
}

// NewClient создает клиент сервиса инференса
func NewClient(baseURL string, sampleRate float64, timeout time.Duration) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)

	return &Client{
		http:       http,
		sampleRate: sampleRate,
	}
}

// Predict отправляет сигнал одного отведения и текущий пульс, получает
// интерпретацию
func (c *Client) Predict(ctx context.Context, signal []float64, heartRate float64) (*Prediction, error) {
	request := &PredictRequest{
		EcgSignal:         signal,
		OriginalFrequency: c.sampleRate,
		HeartRate:         heartRate,
	}

	var prediction Prediction
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(request).
		SetResult(&prediction).
		Post("/predict")
	if err != nil {
		return nil, fmt.Errorf("inference request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("inference service returned %s", resp.Status())
	}

	log.Printf("[INFERENCE] Prediction received: %q (signal points: %d)",
		prediction.Diagnosis, len(signal))
	return &prediction, nil
}
