package models

import (
	"encoding/json"
	"errors"
	"time"
)

// Ошибки валидации
var (
	ErrInvalidHeartRate   = errors.New("invalid heart rate value")
	ErrInvalidPressure    = errors.New("invalid blood pressure value")
	ErrInvalidSpO2        = errors.New("invalid SpO2 value")
	ErrInvalidTemperature = errors.New("invalid temperature value")
	ErrInvalidLead        = errors.New("invalid ECG lead index")
)

// NumLeads - количество независимых каналов ЭКГ (отведения I, II, III)
const NumLeads = 3

// Lead идентифицирует отведение ЭКГ
type Lead int

const (
	LeadI Lead = iota
	LeadII
	LeadIII
)

// String возвращает клиническое имя отведения
func (l Lead) String() string {
	switch l {
	case LeadI:
		return "Lead I"
	case LeadII:
		return "Lead II"
	case LeadIII:
		return "Lead III"
	}
	return "unknown"
}

// BloodPressure - пара систолическое/диастолическое давление в мм рт. ст.
type BloodPressure struct {
	Systolic  float64 `json:"systolic"`
	Diastolic float64 `json:"diastolic"`
}

// VitalSigns - снимок жизненных показателей пациента. Снимок заменяется
// целиком на каждом тике, по частям никогда не мутируется: читатели
// (рендер, финальный отчет) видят либо старый, либо полностью новый снимок.
type VitalSigns struct {
	HeartRate     float64       `json:"heartRate"`   // уд/мин
	BloodPressure BloodPressure `json:"bloodPressure"`
	BloodSugar    float64       `json:"bloodSugar"`  // мг/дл
	SpO2          float64       `json:"spo2"`        // проценты, 0-100
	Temperature   float64       `json:"temperature"` // °F
}

// IsColdStart сообщает, что показатели еще не инициализированы
func (v VitalSigns) IsColdStart() bool {
	return v.HeartRate == 0 && v.SpO2 == 0 && v.Temperature == 0
}

// EcgSample - один отсчет ЭКГ. Timestamp - монотонная метка в пределах
// сессии, не привязанная к wall-clock.
type EcgSample struct {
	Timestamp int64   `json:"timestamp"`
	Amplitude float64 `json:"amplitude"`
}

// VitalsUpdate - частичное обновление снимка показателей. Поля nil
// оставляют прежнее значение (last-value-wins слияние); присутствующие
// отсчеты ЭКГ добавляются в окна соответствующих отведений.
type VitalsUpdate struct {
	HeartRate   *float64
	Systolic    *float64
	Diastolic   *float64
	BloodSugar  *float64
	SpO2        *float64
	Temperature *float64
	Ecg         [NumLeads]*float64
}

// IsEmpty сообщает, что обновление не несет ни одного поля
func (u VitalsUpdate) IsEmpty() bool {
	if u.HeartRate != nil || u.Systolic != nil || u.Diastolic != nil ||
		u.BloodSugar != nil || u.SpO2 != nil || u.Temperature != nil {
		return false
	}
	for _, v := range u.Ecg {
		if v != nil {
			return false
		}
	}
	return true
}

// Merge применяет обновление к снимку и возвращает новый снимок
func (u VitalsUpdate) Merge(prev VitalSigns) VitalSigns {
	next := prev
	if u.HeartRate != nil {
		next.HeartRate = *u.HeartRate
	}
	if u.Systolic != nil {
		next.BloodPressure.Systolic = *u.Systolic
	}
	if u.Diastolic != nil {
		next.BloodPressure.Diastolic = *u.Diastolic
	}
	if u.BloodSugar != nil {
		next.BloodSugar = *u.BloodSugar
	}
	if u.SpO2 != nil {
		next.SpO2 = *u.SpO2
	}
	if u.Temperature != nil {
		next.Temperature = *u.Temperature
	}
	return next
}

// VitalStatus - оценка одного показателя в итоговом анализе
type VitalStatus struct {
	DisplayValue string `json:"display_value"`
	Status       string `json:"status"`
	Explanation  string `json:"explanation"`
}

// AnalysisResult - результат анализа сессии. Создается один раз при
// переходе ANALYZING -> COMPLETE и после этого не изменяется.
type AnalysisResult struct {
	PerVitalStatus     map[string]VitalStatus `json:"per_vital_status"`
	PotentialDiagnosis string                 `json:"potential_diagnosis"`
	Recommendations    []string               `json:"recommendations"`
	// ExternalModelOutput - непрозрачный ответ внешней модели, отдается
	// потребителю отчета как есть
	ExternalModelOutput json.RawMessage `json:"external_model_output,omitempty"`
}

// Report - итоговый отчет сессии, передаваемый потребителю на COMPLETE
type Report struct {
	SessionID   string          `json:"session_id"`
	Contact     string          `json:"contact,omitempty"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt time.Time       `json:"completed_at"`
	Vitals      VitalSigns      `json:"vitals"`
	Result      *AnalysisResult `json:"result"`
	// ChartImages - снимки графиков по отведениям; nil на месте
	// неудавшегося захвата
	ChartImages [NumLeads][]byte `json:"-"`
}
