package hardware

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/Krimson/patient-monitor/internal/models"
)

// Ошибки разбора
var (
	ErrEmptyLine         = errors.New("empty line")
	ErrMalformedLine     = errors.New("malformed device record")
	ErrDeviceUnavailable = errors.New("device unavailable")
)

// deviceRecord - одна JSON-запись устройства. Исторически прошивки
// использовали разные имена полей, принимаем все известные псевдонимы.
type deviceRecord struct {
	HR        *float64 `json:"hr"`
	HeartRate *float64 `json:"heartRate"`

	Systolic  *float64  `json:"systolic"`
	Diastolic *float64  `json:"diastolic"`
	BP        []float64 `json:"bp"` // пара [систолическое, диастолическое]

	SpO2    *float64 `json:"spo2"`
	SpO2Alt *float64 `json:"SpO2"`

	Temp        *float64 `json:"temp"`
	Temperature *float64 `json:"temperature"`

	Sugar      *float64 `json:"sugar"`
	BloodSugar *float64 `json:"bloodSugar"`

	// Амплитуды ЭКГ, по каналу на отведение
	Ecg  *float64 `json:"ecg"`
	Ecg2 *float64 `json:"ecg2"`
	Ecg3 *float64 `json:"ecg3"`
}

// ParseLine разбирает одну строку потока устройства в частичное
// обновление показателей. Отсутствующие поля остаются nil - прежние
// значения не затираются.
func ParseLine(line string) (models.VitalsUpdate, error) {
	var update models.VitalsUpdate

	line = strings.TrimSpace(line)
	if line == "" {
		return update, ErrEmptyLine
	}

	var rec deviceRecord
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		return update, ErrMalformedLine
	}

	update.HeartRate = firstOf(rec.HR, rec.HeartRate)
	update.SpO2 = firstOf(rec.SpO2, rec.SpO2Alt)
	update.Temperature = firstOf(rec.Temp, rec.Temperature)
	update.BloodSugar = firstOf(rec.Sugar, rec.BloodSugar)

	update.Systolic = rec.Systolic
	update.Diastolic = rec.Diastolic
	if len(rec.BP) == 2 {
		update.Systolic = &rec.BP[0]
		update.Diastolic = &rec.BP[1]
	}

	update.Ecg[models.LeadI] = rec.Ecg
	update.Ecg[models.LeadII] = rec.Ecg2
	update.Ecg[models.LeadIII] = rec.Ecg3

	return update, nil
}

func firstOf(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
