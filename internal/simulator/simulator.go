package simulator

import (
	"context"
	"math/rand"
	"time"

	"github.com/Krimson/patient-monitor/internal/config"
	"github.com/Krimson/patient-monitor/internal/ecg"
	"github.com/Krimson/patient-monitor/internal/generators"
	"github.com/Krimson/patient-monitor/internal/models"
	"github.com/Krimson/patient-monitor/internal/session"
)

// Source - симуляторный источник показателей: на каждом тике производит
// полный снимок показателей и по одному отсчету ЭКГ на отведение.
// Состояние сбрасывается в холодный старт при каждом Run.
type Source struct {
	interval time.Duration

	heartRate   generators.VitalGenerator
	bloodSugar  generators.VitalGenerator
	spo2        generators.VitalGenerator
	temperature generators.VitalGenerator
	pressure    *generators.BloodPressureGenerator
	engine      *ecg.Engine

	current models.VitalSigns
}

// New создает симулятор для пациента заданного возраста. Некорректные
// диапазоны в конфигурации - ошибка конструирования, не времени
// исполнения.
func New(cfg *config.Config, age int, rnd *rand.Rand) (*Source, error) {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	heartRate, err := generators.NewWalkGenerator(cfg.Vitals.HeartRate, rnd)
	if err != nil {
		return nil, err
	}
	bloodSugar, err := generators.NewWalkGenerator(cfg.Vitals.BloodSugar, rnd)
	if err != nil {
		return nil, err
	}
	spo2, err := generators.NewSpO2Generator(cfg.Vitals.SpO2, rnd)
	if err != nil {
		return nil, err
	}
	temperature, err := generators.NewTemperatureGenerator(cfg.Vitals.Temperature, rnd)
	if err != nil {
		return nil, err
	}
	pressure, err := generators.NewBloodPressureGenerator(cfg.BloodPressure, age, rnd)
	if err != nil {
		return nil, err
	}
	engine, err := ecg.NewEngine(cfg.ECG, rnd)
	if err != nil {
		return nil, err
	}

	return &Source{
		interval:    cfg.Session.TickInterval,
		heartRate:   heartRate,
		bloodSugar:  bloodSugar,
		spo2:        spo2,
		temperature: temperature,
		pressure:    pressure,
		engine:      engine,
	}, nil
}

// Name возвращает имя источника
func (s *Source) Name() string {
	return "simulator"
}

// Run крутит тик до отмены контекста
func (s *Source) Run(ctx context.Context, apply session.ApplyFunc) error {
	s.current = models.VitalSigns{}
	s.engine.Reset()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			apply(s.tick())

		case <-ctx.Done():
			return nil
		}
	}
}

// tick производит обновление одного тика
func (s *Source) tick() models.VitalsUpdate {
	next := models.VitalSigns{
		HeartRate:     s.heartRate.Next(s.current.HeartRate),
		BloodPressure: s.pressure.Next(s.current.BloodPressure),
		BloodSugar:    s.bloodSugar.Next(s.current.BloodSugar),
		SpO2:          s.spo2.Next(s.current.SpO2),
		Temperature:   s.temperature.Next(s.current.Temperature),
	}
	s.current = next

	samples := s.engine.Next()

	update := models.VitalsUpdate{
		HeartRate:   &next.HeartRate,
		Systolic:    &next.BloodPressure.Systolic,
		Diastolic:   &next.BloodPressure.Diastolic,
		BloodSugar:  &next.BloodSugar,
		SpO2:        &next.SpO2,
		Temperature: &next.Temperature,
	}
	for i := range samples {
		v := samples[i]
		update.Ecg[i] = &v
	}
	return update
}
