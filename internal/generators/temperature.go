package generators

import (
	"math/rand"

	"github.com/Krimson/patient-monitor/internal/config"
)

// Фазы прогрева датчика температуры
const (
	tempWarmupThreshold = 10 // ниже - датчик только включился
	tempWarmupBandLow   = 90 // полоса после включения: 90-95
	tempWarmupBandSpan  = 5
)

// temperatureGenerator моделирует физический датчик: включение около
// нуля, скачок в полосу 90-95, монотонный подъем к Target и затем
// обычное блуждание в установившемся диапазоне.
type temperatureGenerator struct {
	rnd *rand.Rand
	cfg config.TemperatureConfig
}

// NewTemperatureGenerator создает генератор температуры
func NewTemperatureGenerator(cfg config.TemperatureConfig, rnd *rand.Rand) (VitalGenerator, error) {
	if !validRange(cfg.Steady.Min, cfg.Steady.Max, cfg.Steady.MaxStep) {
		return nil, ErrInvalidConfig
	}
	if cfg.Target <= tempWarmupThreshold || cfg.WarmupStep < 0 {
		return nil, ErrInvalidConfig
	}
	return &temperatureGenerator{rnd: rnd, cfg: cfg}, nil
}

func (g *temperatureGenerator) Next(current float64) float64 {
	switch {
	case current == 0:
		// Холодный старт: датчик показывает почти ноль
		return g.rnd.Float64()

	case current < tempWarmupThreshold:
		// Скачок прогрева в полосу 90-95
		return tempWarmupBandLow + g.rnd.Float64()*tempWarmupBandSpan

	case current < g.cfg.Target:
		// Монотонный подъем к Target, без перелета
		value := current + g.rnd.Float64()*g.cfg.WarmupStep
		if value > g.cfg.Target {
			value = g.cfg.Target
		}
		return value

	default:
		// Установившийся режим
		value := current + g.rnd.Float64()*g.cfg.Steady.MaxStep - g.cfg.Steady.MaxStep/2
		return clamp(value, g.cfg.Steady.Min, g.cfg.Steady.Max)
	}
}
