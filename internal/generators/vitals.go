package generators

import (
	"math/rand"

	"github.com/Krimson/patient-monitor/internal/config"
)

// walkGenerator - базовый генератор по закону Walk. Подходит для пульса
// и сахара крови.
type walkGenerator struct {
	rnd *rand.Rand
	cfg config.Range
}

// NewWalkGenerator создает генератор ограниченного случайного блуждания
func NewWalkGenerator(cfg config.Range, rnd *rand.Rand) (VitalGenerator, error) {
	if !validRange(cfg.Min, cfg.Max, cfg.MaxStep) {
		return nil, ErrInvalidConfig
	}
	return &walkGenerator{rnd: rnd, cfg: cfg}, nil
}

func (g *walkGenerator) Next(current float64) float64 {
	return Walk(g.rnd, g.cfg.Min, g.cfg.Max, current, g.cfg.MaxStep)
}
