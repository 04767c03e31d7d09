package ecg

import (
	"errors"
	"math/rand"

	"github.com/Krimson/patient-monitor/internal/config"
	"github.com/Krimson/patient-monitor/internal/models"
)

// Ошибки движка
var (
	ErrInvalidPattern = errors.New("invalid ECG pattern configuration")
)

// beatCycle - состояние нормального сердечного цикла. Перегенерируется
// в начале каждого нормального удара: вся рандомизация действует на
// удар целиком, не на отдельный отсчет, поэтому комплекс остается
// внутренне когерентным.
type beatCycle struct {
	pos      int     // позиция внутри удара
	length   int     // длина удара: длина формы + джиттер 0..N тиков
	ampScale float64 // масштаб амплитуды, ~1.0 +/- jitter
}

// arrhythmia - состояние эпизода PVC. Пока эпизод активен, нормальный
// цикл отсчеты не производит: на каждом тике работает ровно один из
// двух драйверов.
type arrhythmia struct {
	active bool
	step   int
}

// Engine - волновой движок ЭКГ: один отсчет на тик на отведение
type Engine struct {
	rnd *rand.Rand
	cfg config.ECGConfig

	beat beatCycle
	arr  arrhythmia
}

// NewEngine создает движок. Формы должны быть непустыми и одинаковой
// длины по отведениям.
func NewEngine(cfg config.ECGConfig, rnd *rand.Rand) (*Engine, error) {
	if cfg.PVCProbability < 0 || cfg.PVCProbability > 1 {
		return nil, ErrInvalidPattern
	}
	baseLen := len(cfg.LeadPatterns[0])
	pvcLen := len(cfg.PVCPatterns[0])
	if baseLen == 0 || pvcLen == 0 {
		return nil, ErrInvalidPattern
	}
	for i := 1; i < models.NumLeads; i++ {
		if len(cfg.LeadPatterns[i]) != baseLen || len(cfg.PVCPatterns[i]) != pvcLen {
			return nil, ErrInvalidPattern
		}
	}
	e := &Engine{rnd: rnd, cfg: cfg}
	e.Reset()
	return e, nil
}

// Reset возвращает движок к началу нормального удара
func (e *Engine) Reset() {
	e.arr = arrhythmia{}
	e.beat = beatCycle{length: len(e.cfg.LeadPatterns[0]), ampScale: 1.0}
}

// InPVC сообщает, активен ли эпизод экстрасистолы
func (e *Engine) InPVC() bool {
	return e.arr.active
}

// Next производит по одному отсчету на каждое отведение
func (e *Engine) Next() [models.NumLeads]float64 {
	if !e.arr.active && e.beat.pos == 0 {
		if e.rnd.Float64() < e.cfg.PVCProbability {
			e.arr = arrhythmia{active: true, step: 0}
		} else {
			e.redrawBeat()
		}
	}

	if e.arr.active {
		return e.nextPVC()
	}
	return e.nextNormal()
}

// redrawBeat перегенерирует параметры удара на его границе
func (e *Engine) redrawBeat() {
	jitter := 0
	if e.cfg.BeatLengthJitterTicks > 0 {
		jitter = e.rnd.Intn(e.cfg.BeatLengthJitterTicks + 1)
	}
	e.beat.length = len(e.cfg.LeadPatterns[0]) + jitter
	e.beat.ampScale = 1.0 + (e.rnd.Float64()*2-1)*e.cfg.AmplitudeJitter
}

func (e *Engine) nextPVC() [models.NumLeads]float64 {
	var out [models.NumLeads]float64
	for i := 0; i < models.NumLeads; i++ {
		out[i] = e.cfg.PVCPatterns[i][e.arr.step]
	}
	e.arr.step++
	if e.arr.step >= len(e.cfg.PVCPatterns[0]) {
		// Эпизод исчерпан: возврат к нормальному ритму с начала удара
		e.arr = arrhythmia{}
		e.beat.pos = 0
	}
	return out
}

func (e *Engine) nextNormal() [models.NumLeads]float64 {
	var out [models.NumLeads]float64
	baseLen := len(e.cfg.LeadPatterns[0])
	for i := 0; i < models.NumLeads; i++ {
		if e.beat.pos >= baseLen {
			// Пауза между ударами: плоская изолиния
			out[i] = e.cfg.Baseline
			continue
		}
		sample := e.cfg.LeadPatterns[i][e.beat.pos]
		out[i] = e.cfg.Baseline + (sample-e.cfg.Baseline)*e.beat.ampScale
	}

	length := e.beat.length
	if length <= 0 {
		length = baseLen
	}
	e.beat.pos = (e.beat.pos + 1) % length
	return out
}
