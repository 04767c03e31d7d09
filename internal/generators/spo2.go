package generators

import (
	"math/rand"

	"github.com/Krimson/patient-monitor/internal/config"
)

// Начальное значение сатурации: датчик всегда стартует с 98, без
// случайной выборки
const spo2ColdStartValue = 98

// Множитель возмущения SpO2 относительно базового закона
const spo2StepFactor = 8

type spo2Generator struct {
	rnd *rand.Rand
	cfg config.Range
}

// NewSpO2Generator создает генератор сатурации
func NewSpO2Generator(cfg config.Range, rnd *rand.Rand) (VitalGenerator, error) {
	if !validRange(cfg.Min, cfg.Max, cfg.MaxStep) {
		return nil, ErrInvalidConfig
	}
	return &spo2Generator{rnd: rnd, cfg: cfg}, nil
}

func (g *spo2Generator) Next(current float64) float64 {
	if current == 0 {
		return spo2ColdStartValue
	}
	step := g.cfg.MaxStep * spo2StepFactor
	value := current + g.rnd.Float64()*step - step/2
	return clamp(value, g.cfg.Min, g.cfg.Max)
}
