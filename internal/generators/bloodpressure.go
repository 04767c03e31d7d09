package generators

import (
	"math/rand"

	"github.com/Krimson/patient-monitor/internal/config"
	"github.com/Krimson/patient-monitor/internal/models"
)

// Возрастные полосы давления
const (
	youngBandMin = 10
	youngBandMax = 29
)

// BloodPressureGenerator генерирует пару систолическое/диастолическое.
// Оба значения эволюционируют независимо по одному закону, но с разными
// шагами; границы выбираются по возрастной полосе пациента.
type BloodPressureGenerator struct {
	rnd       *rand.Rand
	systolic  config.Range
	diastolic config.Range
}

// NewBloodPressureGenerator создает генератор давления для заданного
// возраста. Возраст вне [10, 29] (включая некорректный отрицательный)
// попадает во взрослую полосу.
func NewBloodPressureGenerator(cfg config.BloodPressureConfig, age int, rnd *rand.Rand) (*BloodPressureGenerator, error) {
	sys, dia := cfg.AdultSystolic, cfg.AdultDiastolic
	if age >= youngBandMin && age <= youngBandMax {
		sys, dia = cfg.YoungSystolic, cfg.YoungDiastolic
	}
	if !validRange(sys.Min, sys.Max, sys.MaxStep) || !validRange(dia.Min, dia.Max, dia.MaxStep) {
		return nil, ErrInvalidConfig
	}
	return &BloodPressureGenerator{rnd: rnd, systolic: sys, diastolic: dia}, nil
}

// Next возвращает следующую пару давления по текущей
func (g *BloodPressureGenerator) Next(current models.BloodPressure) models.BloodPressure {
	return models.BloodPressure{
		Systolic:  Walk(g.rnd, g.systolic.Min, g.systolic.Max, current.Systolic, g.systolic.MaxStep),
		Diastolic: Walk(g.rnd, g.diastolic.Min, g.diastolic.Max, current.Diastolic, g.diastolic.MaxStep),
	}
}
