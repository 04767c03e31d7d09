package analysis

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/Krimson/patient-monitor/internal/charts"
	"github.com/Krimson/patient-monitor/internal/config"
	"github.com/Krimson/patient-monitor/internal/inference"
	"github.com/Krimson/patient-monitor/internal/models"
)

// Текст-заглушка, когда модель не дала интерпретации
const placeholderDiagnosis = "Automated ECG interpretation unavailable"

// Рекомендации по умолчанию при отказе модели
var fallbackRecommendations = []string{
	"Review the captured vitals with a clinician.",
	"Repeat the monitoring session to confirm the readings.",
}

// Classifier - внешняя модель интерпретации ЭКГ
type Classifier interface {
	Predict(ctx context.Context, signal []float64, heartRate float64) (*inference.Prediction, error)
}

// Pipeline - пост-сессионный конвейер: инференс и снимки графиков
// выполняются параллельно (fan-out/fan-in), отдельные отказы терпимы и
// дают деградированные поля вместо срыва сессии. Автоматических
// повторов нет.
type Pipeline struct {
	cfg        *config.Config
	classifier Classifier
	renderer   charts.Renderer
}

// NewPipeline создает конвейер анализа
func NewPipeline(cfg *config.Config, classifier Classifier, renderer charts.Renderer) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		classifier: classifier,
		renderer:   renderer,
	}
}

// Analyze собирает результат анализа сессии. Возвращает всегда не-nil
// результат; изображения с отказавшим захватом остаются nil.
func (p *Pipeline) Analyze(ctx context.Context, vitals models.VitalSigns, leads [models.NumLeads][]models.EcgSample) (*models.AnalysisResult, [models.NumLeads][]byte) {
	var (
		wg         sync.WaitGroup
		prediction *inference.Prediction
		images     [models.NumLeads][]byte
	)

	// Инференс по отведению I и последнему известному пульсу
	if p.classifier != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			signal := amplitudes(leads[models.LeadI])
			pred, err := p.classifier.Predict(ctx, signal, vitals.HeartRate)
			if err != nil {
				log.Printf("[WARN] Inference failed, continuing with placeholder: %v", err)
				return
			}
			prediction = pred
		}()
	}

	// Снимки трех графиков, независимо друг от друга
	if p.renderer != nil {
		for i := 0; i < models.NumLeads; i++ {
			wg.Add(1)
			go func(lead models.Lead) {
				defer wg.Done()
				img, err := p.renderer.Capture(ctx, lead, leads[lead])
				if err != nil {
					log.Printf("[WARN] Chart capture failed for %s: %v", lead, err)
					return
				}
				images[lead] = img
			}(models.Lead(i))
		}
	}

	wg.Wait()

	return p.assemble(vitals, prediction), images
}

// assemble собирает итоговый результат из снимка показателей и ответа
// модели (или заглушек)
func (p *Pipeline) assemble(vitals models.VitalSigns, prediction *inference.Prediction) *models.AnalysisResult {
	result := &models.AnalysisResult{
		PerVitalStatus:     evaluateVitals(p.cfg, vitals),
		PotentialDiagnosis: placeholderDiagnosis,
		Recommendations:    fallbackRecommendations,
	}

	if prediction == nil {
		return result
	}

	if prediction.Diagnosis != "" {
		result.PotentialDiagnosis = prediction.Diagnosis
	}
	if prediction.Recommendation != "" {
		result.Recommendations = []string{prediction.Recommendation}
	}
	if raw, err := json.Marshal(prediction); err == nil {
		result.ExternalModelOutput = raw
	}
	return result
}

func amplitudes(samples []models.EcgSample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Amplitude
	}
	return out
}
