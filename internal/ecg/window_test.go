package ecg

import (
	"testing"

	"github.com/Krimson/patient-monitor/internal/models"
)

func TestWindowSet_ResetFillsToCapacity(t *testing.T) {
	w := NewWindowSet(100)
	w.Reset(50)

	// После сброса все окна заполнены изолинией до полной емкости
	for i := 0; i < models.NumLeads; i++ {
		samples := w.Lead(models.Lead(i))
		if len(samples) != 100 {
			t.Fatalf("Expected lead %d window of 100 samples, got %d", i, len(samples))
		}
		for _, s := range samples {
			if s.Amplitude != 50 {
				t.Fatalf("Expected baseline amplitude 50, got %f", s.Amplitude)
			}
		}
	}
}

func TestWindowSet_EqualLengthsUnderPartialAppends(t *testing.T) {
	w := NewWindowSet(10)
	w.Reset(50)

	// Добавляем отсчеты только в отведение I - длины окон все равно равны
	for i := 0; i < 25; i++ {
		if err := w.Append(models.LeadI, 72); err != nil {
			t.Fatalf("Failed to append sample: %v", err)
		}
	}

	lenI := len(w.Lead(models.LeadI))
	lenII := len(w.Lead(models.LeadII))
	lenIII := len(w.Lead(models.LeadIII))
	if lenI != lenII || lenII != lenIII {
		t.Errorf("Expected equal window lengths, got %d/%d/%d", lenI, lenII, lenIII)
	}
	if lenI != 10 {
		t.Errorf("Expected window length 10, got %d", lenI)
	}
}

func TestWindowSet_EvictsOldest(t *testing.T) {
	w := NewWindowSet(3)
	w.Reset(50)

	w.Append(models.LeadI, 1)
	w.Append(models.LeadI, 2)
	w.Append(models.LeadI, 3)
	w.Append(models.LeadI, 4)

	samples := w.Lead(models.LeadI)
	if len(samples) != 3 {
		t.Fatalf("Expected window of 3 samples, got %d", len(samples))
	}
	// Самые старые вытеснены, остались три последних
	want := []float64{2, 3, 4}
	for i, s := range samples {
		if s.Amplitude != want[i] {
			t.Errorf("Expected amplitude %f at position %d, got %f", want[i], i, s.Amplitude)
		}
	}
}

func TestWindowSet_TimestampsMonotonic(t *testing.T) {
	w := NewWindowSet(5)
	w.Reset(50)
	for i := 0; i < 12; i++ {
		w.Append(models.LeadII, float64(i))
	}

	samples := w.Lead(models.LeadII)
	for i := 1; i < len(samples); i++ {
		if samples[i].Timestamp <= samples[i-1].Timestamp {
			t.Fatalf("Expected monotonic timestamps, got %d after %d",
				samples[i].Timestamp, samples[i-1].Timestamp)
		}
	}
}

func TestWindowSet_InvalidLead(t *testing.T) {
	w := NewWindowSet(5)
	if err := w.Append(models.Lead(7), 50); err != models.ErrInvalidLead {
		t.Errorf("Expected ErrInvalidLead, got %v", err)
	}
	if samples := w.Lead(models.Lead(-1)); samples != nil {
		t.Errorf("Expected nil for invalid lead, got %d samples", len(samples))
	}
}

func TestWindowSet_SnapshotIsCopy(t *testing.T) {
	w := NewWindowSet(3)
	w.Reset(50)

	snap := w.Snapshot()
	w.Append(models.LeadI, 99)

	// Снимок не должен видеть последующие добавления
	for _, s := range snap[models.LeadI] {
		if s.Amplitude == 99 {
			t.Error("Expected snapshot to be isolated from later appends")
		}
	}
}

func TestWindowSet_Amplitudes(t *testing.T) {
	w := NewWindowSet(2)
	w.Reset(50)
	w.Append(models.LeadIII, 60)
	w.Append(models.LeadIII, 70)

	amps := w.Amplitudes(models.LeadIII)
	if len(amps) != 2 || amps[0] != 60 || amps[1] != 70 {
		t.Errorf("Expected amplitudes [60, 70], got %v", amps)
	}
}
