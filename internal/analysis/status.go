package analysis

import (
	"fmt"

	"github.com/Krimson/patient-monitor/internal/config"
	"github.com/Krimson/patient-monitor/internal/models"
)

// Статусы показателей в итоговом отчете
const (
	StatusNormal = "normal"
	StatusLow    = "low"
	StatusHigh   = "high"
	StatusNoData = "no-data"
)

// evaluateVitals оценивает снимок показателей против настроенных
// диапазонов
func evaluateVitals(cfg *config.Config, vitals models.VitalSigns) map[string]models.VitalStatus {
	out := make(map[string]models.VitalStatus, 5)

	out["heartRate"] = evaluate(
		fmt.Sprintf("%.0f bpm", vitals.HeartRate),
		vitals.HeartRate,
		cfg.Vitals.HeartRate.Min, cfg.Vitals.HeartRate.Max,
		"Heart rate")

	out["bloodPressure"] = evaluatePressure(cfg.BloodPressure, vitals.BloodPressure)

	out["bloodSugar"] = evaluate(
		fmt.Sprintf("%.0f mg/dL", vitals.BloodSugar),
		vitals.BloodSugar,
		cfg.Vitals.BloodSugar.Min, cfg.Vitals.BloodSugar.Max,
		"Blood sugar")

	out["spo2"] = evaluate(
		fmt.Sprintf("%.0f%%", vitals.SpO2),
		vitals.SpO2,
		cfg.Vitals.SpO2.Min, cfg.Vitals.SpO2.Max,
		"Oxygen saturation")

	out["temperature"] = evaluate(
		fmt.Sprintf("%.1f °F", vitals.Temperature),
		vitals.Temperature,
		cfg.Vitals.Temperature.Steady.Min, cfg.Vitals.Temperature.Steady.Max,
		"Body temperature")

	return out
}

func evaluate(display string, value, min, max float64, label string) models.VitalStatus {
	if value == 0 {
		return models.VitalStatus{
			DisplayValue: "--",
			Status:       StatusNoData,
			Explanation:  fmt.Sprintf("%s was not captured during this session.", label),
		}
	}
	switch {
	case value < min:
		return models.VitalStatus{
			DisplayValue: display,
			Status:       StatusLow,
			Explanation:  fmt.Sprintf("%s is below the expected range of %.1f-%.1f.", label, min, max),
		}
	case value > max:
		return models.VitalStatus{
			DisplayValue: display,
			Status:       StatusHigh,
			Explanation:  fmt.Sprintf("%s is above the expected range of %.1f-%.1f.", label, min, max),
		}
	default:
		return models.VitalStatus{
			DisplayValue: display,
			Status:       StatusNormal,
			Explanation:  fmt.Sprintf("%s is within the expected range.", label),
		}
	}
}

// evaluatePressure оценивает давление по взрослой полосе: возраст
// пациента в отчете уже не известен, берем широкую границу обеих полос
func evaluatePressure(cfg config.BloodPressureConfig, bp models.BloodPressure) models.VitalStatus {
	if bp.Systolic == 0 && bp.Diastolic == 0 {
		return models.VitalStatus{
			DisplayValue: "--",
			Status:       StatusNoData,
			Explanation:  "Blood pressure was not captured during this session.",
		}
	}

	display := fmt.Sprintf("%.0f/%.0f mmHg", bp.Systolic, bp.Diastolic)
	sysMin := minOf(cfg.YoungSystolic.Min, cfg.AdultSystolic.Min)
	sysMax := maxOf(cfg.YoungSystolic.Max, cfg.AdultSystolic.Max)
	diaMin := minOf(cfg.YoungDiastolic.Min, cfg.AdultDiastolic.Min)
	diaMax := maxOf(cfg.YoungDiastolic.Max, cfg.AdultDiastolic.Max)

	switch {
	case bp.Systolic < sysMin || bp.Diastolic < diaMin:
		return models.VitalStatus{
			DisplayValue: display,
			Status:       StatusLow,
			Explanation:  "Blood pressure is below the expected range.",
		}
	case bp.Systolic > sysMax || bp.Diastolic > diaMax:
		return models.VitalStatus{
			DisplayValue: display,
			Status:       StatusHigh,
			Explanation:  "Blood pressure is above the expected range.",
		}
	default:
		return models.VitalStatus{
			DisplayValue: display,
			Status:       StatusNormal,
			Explanation:  "Blood pressure is within the expected range.",
		}
	}
}

func minOf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxOf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
