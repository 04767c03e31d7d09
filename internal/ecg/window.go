package ecg

import (
	"github.com/Krimson/patient-monitor/internal/models"
)

// WindowSet - три скользящих окна отсчетов ЭКГ фиксированной емкости,
// по одному на отведение. Добавление при заполненном окне вытесняет
// самый старый отсчет. Инвариант: длины всех трех окон равны в любой
// точке наблюдения (окна заполняются изолинией при сбросе и дальше
// только вытесняют).
type WindowSet struct {
	capacity int
	leads    [models.NumLeads][]models.EcgSample
	seq      [models.NumLeads]int64
}

// NewWindowSet создает набор окон заданной емкости
func NewWindowSet(capacity int) *WindowSet {
	if capacity <= 0 {
		capacity = 1
	}
	w := &WindowSet{capacity: capacity}
	for i := range w.leads {
		w.leads[i] = make([]models.EcgSample, 0, capacity)
	}
	return w
}

// Reset заполняет все окна плоской изолинией до полной емкости и
// перезапускает монотонные метки
func (w *WindowSet) Reset(baseline float64) {
	for i := range w.leads {
		w.leads[i] = w.leads[i][:0]
		w.seq[i] = 0
		for j := 0; j < w.capacity; j++ {
			w.appendLead(i, baseline)
		}
	}
}

// Append добавляет отсчет в окно отведения
func (w *WindowSet) Append(lead models.Lead, amplitude float64) error {
	if lead < 0 || int(lead) >= models.NumLeads {
		return models.ErrInvalidLead
	}
	w.appendLead(int(lead), amplitude)
	return nil
}

// AppendAll добавляет по отсчету в каждое отведение за один тик
func (w *WindowSet) AppendAll(amplitudes [models.NumLeads]float64) {
	for i, a := range amplitudes {
		w.appendLead(i, a)
	}
}

func (w *WindowSet) appendLead(i int, amplitude float64) {
	sample := models.EcgSample{Timestamp: w.seq[i], Amplitude: amplitude}
	w.seq[i]++
	if len(w.leads[i]) >= w.capacity {
		// Вытесняем самый старый отсчет
		copy(w.leads[i], w.leads[i][1:])
		w.leads[i][len(w.leads[i])-1] = sample
		return
	}
	w.leads[i] = append(w.leads[i], sample)
}

// Lead возвращает копию окна отведения
func (w *WindowSet) Lead(lead models.Lead) []models.EcgSample {
	if lead < 0 || int(lead) >= models.NumLeads {
		return nil
	}
	out := make([]models.EcgSample, len(w.leads[lead]))
	copy(out, w.leads[lead])
	return out
}

// Snapshot возвращает копии всех трех окон
func (w *WindowSet) Snapshot() [models.NumLeads][]models.EcgSample {
	var out [models.NumLeads][]models.EcgSample
	for i := range w.leads {
		out[i] = make([]models.EcgSample, len(w.leads[i]))
		copy(out[i], w.leads[i])
	}
	return out
}

// Len возвращает текущую длину окон
func (w *WindowSet) Len() int {
	return len(w.leads[0])
}

// Amplitudes возвращает амплитуды окна отведения плоским срезом -
// формат, ожидаемый внешней моделью
func (w *WindowSet) Amplitudes(lead models.Lead) []float64 {
	samples := w.Lead(lead)
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Amplitude
	}
	return out
}
