package hardware

import (
	"errors"
	"testing"

	"github.com/Krimson/patient-monitor/internal/models"
)

func TestParseLine_FullRecord(t *testing.T) {
	update, err := ParseLine(`{"hr": 72, "bp": [120, 80], "spo2": 97, "temp": 98.2, "sugar": 110, "ecg": 55, "ecg2": 60, "ecg3": 48}`)
	if err != nil {
		t.Fatalf("Failed to parse line: %v", err)
	}

	if update.HeartRate == nil || *update.HeartRate != 72 {
		t.Error("Expected heart rate 72")
	}
	if update.Systolic == nil || *update.Systolic != 120 {
		t.Error("Expected systolic 120 from bp pair")
	}
	if update.Diastolic == nil || *update.Diastolic != 80 {
		t.Error("Expected diastolic 80 from bp pair")
	}
	if update.SpO2 == nil || *update.SpO2 != 97 {
		t.Error("Expected SpO2 97")
	}
	if update.Temperature == nil || *update.Temperature != 98.2 {
		t.Error("Expected temperature 98.2")
	}
	if update.BloodSugar == nil || *update.BloodSugar != 110 {
		t.Error("Expected blood sugar 110")
	}
	for i, want := range []float64{55, 60, 48} {
		if update.Ecg[i] == nil || *update.Ecg[i] != want {
			t.Errorf("Expected ECG lead %d amplitude %f", i, want)
		}
	}
}

func TestParseLine_PartialRecord(t *testing.T) {
	// Частичная запись: отсутствующие поля остаются nil
	update, err := ParseLine(`{"hr": 72, "ecg": 55}`)
	if err != nil {
		t.Fatalf("Failed to parse line: %v", err)
	}

	if update.HeartRate == nil || *update.HeartRate != 72 {
		t.Error("Expected heart rate 72")
	}
	if update.Ecg[models.LeadI] == nil || *update.Ecg[models.LeadI] != 55 {
		t.Error("Expected ECG lead I amplitude 55")
	}
	if update.Systolic != nil || update.Diastolic != nil {
		t.Error("Expected blood pressure fields to stay nil")
	}
	if update.SpO2 != nil || update.Temperature != nil || update.BloodSugar != nil {
		t.Error("Expected absent vitals to stay nil")
	}
	if update.Ecg[models.LeadII] != nil || update.Ecg[models.LeadIII] != nil {
		t.Error("Expected absent ECG leads to stay nil")
	}
}

func TestParseLine_FieldAliases(t *testing.T) {
	update, err := ParseLine(`{"heartRate": 68, "SpO2": 96, "temperature": 98.6, "bloodSugar": 105}`)
	if err != nil {
		t.Fatalf("Failed to parse line: %v", err)
	}

	if update.HeartRate == nil || *update.HeartRate != 68 {
		t.Error("Expected heartRate alias to be accepted")
	}
	if update.SpO2 == nil || *update.SpO2 != 96 {
		t.Error("Expected SpO2 alias to be accepted")
	}
	if update.Temperature == nil || *update.Temperature != 98.6 {
		t.Error("Expected temperature alias to be accepted")
	}
	if update.BloodSugar == nil || *update.BloodSugar != 105 {
		t.Error("Expected bloodSugar alias to be accepted")
	}
}

func TestParseLine_SeparatePressureFields(t *testing.T) {
	update, err := ParseLine(`{"systolic": 118, "diastolic": 76}`)
	if err != nil {
		t.Fatalf("Failed to parse line: %v", err)
	}
	if update.Systolic == nil || *update.Systolic != 118 {
		t.Error("Expected systolic 118")
	}
	if update.Diastolic == nil || *update.Diastolic != 76 {
		t.Error("Expected diastolic 76")
	}
}

func TestParseLine_BPPairWinsOverSeparateFields(t *testing.T) {
	update, err := ParseLine(`{"systolic": 100, "diastolic": 60, "bp": [120, 80]}`)
	if err != nil {
		t.Fatalf("Failed to parse line: %v", err)
	}
	if *update.Systolic != 120 || *update.Diastolic != 80 {
		t.Errorf("Expected bp pair to win, got %f/%f", *update.Systolic, *update.Diastolic)
	}
}

func TestParseLine_Malformed(t *testing.T) {
	cases := []string{
		`not json at all`,
		`{"hr": `,
		`[1, 2, 3`,
	}
	for _, line := range cases {
		if _, err := ParseLine(line); !errors.Is(err, ErrMalformedLine) {
			t.Errorf("Expected ErrMalformedLine for %q, got %v", line, err)
		}
	}
}

func TestParseLine_Empty(t *testing.T) {
	for _, line := range []string{"", "   ", "\n"} {
		if _, err := ParseLine(line); !errors.Is(err, ErrEmptyLine) {
			t.Errorf("Expected ErrEmptyLine for %q, got %v", line, err)
		}
	}
}

func TestParseLine_UnknownFieldsIgnored(t *testing.T) {
	update, err := ParseLine(`{"hr": 70, "firmware": "v2.1", "battery": 87}`)
	if err != nil {
		t.Fatalf("Failed to parse line with unknown fields: %v", err)
	}
	if update.HeartRate == nil || *update.HeartRate != 70 {
		t.Error("Expected heart rate parsed despite unknown fields")
	}
}
