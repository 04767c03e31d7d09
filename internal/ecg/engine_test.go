package ecg

import (
	"math/rand"
	"testing"

	"github.com/Krimson/patient-monitor/internal/config"
	"github.com/Krimson/patient-monitor/internal/models"
)

func testPatterns() config.ECGConfig {
	return config.ECGConfig{
		Baseline:        50,
		PVCProbability:  0,
		AmplitudeJitter: 0,
		LeadPatterns: [3][]float64{
			{50, 60, 85, 40, 50},
			{50, 62, 95, 35, 50},
			{50, 58, 72, 45, 50},
		},
		PVCPatterns: [3][]float64{
			{50, 20, 90, 60, 50},
			{50, 15, 98, 62, 50},
			{50, 28, 80, 58, 50},
		},
	}
}

func TestEngine_NormalBeatReproducesPattern(t *testing.T) {
	cfg := testPatterns()
	engine, err := NewEngine(cfg, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	// Без джиттера и PVC движок воспроизводит базовую форму точь-в-точь
	for pos := 0; pos < len(cfg.LeadPatterns[0]); pos++ {
		out := engine.Next()
		for i := 0; i < models.NumLeads; i++ {
			if out[i] != cfg.LeadPatterns[i][pos] {
				t.Fatalf("Expected lead %d sample %f at position %d, got %f",
					i, cfg.LeadPatterns[i][pos], pos, out[i])
			}
		}
	}
}

func TestEngine_OneSamplePerLeadPerTick(t *testing.T) {
	engine, err := NewEngine(testPatterns(), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	out := engine.Next()
	if len(out) != models.NumLeads {
		t.Errorf("Expected %d samples per tick, got %d", models.NumLeads, len(out))
	}
}

func TestEngine_PVCEpisodeRunsToCompletion(t *testing.T) {
	cfg := testPatterns()
	cfg.PVCProbability = 1 // каждый удар начинается с экстрасистолы
	engine, err := NewEngine(cfg, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	pvcLen := len(cfg.PVCPatterns[0])
	for pos := 0; pos < pvcLen; pos++ {
		out := engine.Next()
		for i := 0; i < models.NumLeads; i++ {
			if out[i] != cfg.PVCPatterns[i][pos] {
				t.Fatalf("Expected PVC sample %f at position %d lead %d, got %f",
					cfg.PVCPatterns[i][pos], pos, i, out[i])
			}
		}
		// Эпизод активен на всех отсчетах, кроме последнего
		if pos < pvcLen-1 && !engine.InPVC() {
			t.Fatalf("Expected active PVC episode at position %d", pos)
		}
	}

	if engine.InPVC() {
		t.Error("Expected PVC episode finished after full pattern")
	}
}

func TestEngine_NoPVCMidBeat(t *testing.T) {
	cfg := testPatterns()
	engine, err := NewEngine(cfg, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	// Первый отсчет производится с вероятностью PVC 0
	engine.Next()

	// Поднимаем вероятность до 1 посреди удара: эпизод не может начаться
	// до границы следующего удара
	engine.cfg.PVCProbability = 1
	for pos := 1; pos < len(cfg.LeadPatterns[0]); pos++ {
		engine.Next()
		if engine.InPVC() {
			t.Fatalf("Expected no PVC entry mid-beat at position %d", pos)
		}
	}

	// Граница удара: теперь эпизод обязан начаться
	engine.Next()
	if !engine.InPVC() {
		t.Error("Expected PVC entry at beat boundary")
	}
}

func TestEngine_BaselinePauseAfterPattern(t *testing.T) {
	cfg := testPatterns()
	cfg.BeatLengthJitterTicks = 3
	engine, err := NewEngine(cfg, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	baseLen := len(cfg.LeadPatterns[0])
	sawPause := false

	// За несколько ударов джиттер длины неизбежно даст паузу: отсчеты за
	// пределами формы - плоская изолиния
	for tick := 0; tick < 200; tick++ {
		pos := engine.beat.pos
		out := engine.Next()
		if pos >= baseLen {
			sawPause = true
			for i := 0; i < models.NumLeads; i++ {
				if out[i] != cfg.Baseline {
					t.Fatalf("Expected baseline %f during pause, got %f", cfg.Baseline, out[i])
				}
			}
		}
	}

	if !sawPause {
		t.Error("Expected at least one inter-beat pause with length jitter enabled")
	}
}

func TestEngine_AmplitudeScalePerBeat(t *testing.T) {
	cfg := testPatterns()
	cfg.AmplitudeJitter = 0.05
	engine, err := NewEngine(cfg, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	// Масштаб действует на весь удар: отклонение от формы у каждого
	// отсчета пропорционально его расстоянию от изолинии
	baseLen := len(cfg.LeadPatterns[0])
	for pos := 0; pos < baseLen; pos++ {
		out := engine.Next()
		scale := engine.beat.ampScale
		if scale < 0.95 || scale > 1.05 {
			t.Fatalf("Expected amplitude scale in [0.95, 1.05], got %f", scale)
		}
		for i := 0; i < models.NumLeads; i++ {
			want := cfg.Baseline + (cfg.LeadPatterns[i][pos]-cfg.Baseline)*scale
			if out[i] != want {
				t.Fatalf("Expected scaled sample %f, got %f", want, out[i])
			}
		}
	}
}

func TestEngine_ResetReturnsToNormalRhythm(t *testing.T) {
	cfg := testPatterns()
	cfg.PVCProbability = 1
	engine, err := NewEngine(cfg, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	engine.Next() // вход в эпизод PVC
	if !engine.InPVC() {
		t.Fatal("Expected PVC episode before reset")
	}

	engine.Reset()
	if engine.InPVC() {
		t.Error("Expected normal rhythm after reset")
	}
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	cfg := testPatterns()
	cfg.PVCProbability = 1.5
	if _, err := NewEngine(cfg, rand.New(rand.NewSource(1))); err != ErrInvalidPattern {
		t.Errorf("Expected ErrInvalidPattern for probability out of range, got %v", err)
	}

	cfg = testPatterns()
	cfg.LeadPatterns[1] = []float64{50}
	if _, err := NewEngine(cfg, rand.New(rand.NewSource(1))); err != ErrInvalidPattern {
		t.Errorf("Expected ErrInvalidPattern for mismatched pattern lengths, got %v", err)
	}

	cfg = testPatterns()
	cfg.LeadPatterns = [3][]float64{{}, {}, {}}
	if _, err := NewEngine(cfg, rand.New(rand.NewSource(1))); err != ErrInvalidPattern {
		t.Errorf("Expected ErrInvalidPattern for empty patterns, got %v", err)
	}
}
