package hardware

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/Krimson/patient-monitor/internal/models"
)

// collector собирает обновления, доставленные источником
type collector struct {
	mu      sync.Mutex
	updates []models.VitalsUpdate
}

func (c *collector) apply(u models.VitalsUpdate) {
	c.mu.Lock()
	c.updates = append(c.updates, u)
	c.mu.Unlock()
}

func (c *collector) snapshot() []models.VitalsUpdate {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.VitalsUpdate, len(c.updates))
	copy(out, c.updates)
	return out
}

func TestStreamSource_DeliversLines(t *testing.T) {
	pr, pw := io.Pipe()
	source := NewStreamSource(pr)
	sink := &collector{}

	done := make(chan error, 1)
	go func() {
		done <- source.Run(context.Background(), sink.apply)
	}()

	pw.Write([]byte("{\"hr\": 72, \"ecg\": 55}\n"))
	pw.Write([]byte("{\"bp\": [120, 80]}\n"))
	pw.Close()

	if err := <-done; err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	updates := sink.snapshot()
	if len(updates) != 2 {
		t.Fatalf("Expected 2 updates, got %d", len(updates))
	}
	if updates[0].HeartRate == nil || *updates[0].HeartRate != 72 {
		t.Error("Expected first update to carry heart rate 72")
	}
	if updates[1].Systolic == nil || *updates[1].Systolic != 120 {
		t.Error("Expected second update to carry systolic 120")
	}
}

func TestStreamSource_ReassemblesFragments(t *testing.T) {
	pr, pw := io.Pipe()
	source := NewStreamSource(pr)
	sink := &collector{}

	done := make(chan error, 1)
	go func() {
		done <- source.Run(context.Background(), sink.apply)
	}()

	// Строка приходит кусками: хвостовой фрагмент ждет продолжения
	pw.Write([]byte("{\"hr\": 7"))
	pw.Write([]byte("2}\n{\"spo2\""))
	pw.Write([]byte(": 97}\n"))
	pw.Close()

	if err := <-done; err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	updates := sink.snapshot()
	if len(updates) != 2 {
		t.Fatalf("Expected 2 reassembled updates, got %d", len(updates))
	}
	if updates[0].HeartRate == nil || *updates[0].HeartRate != 72 {
		t.Error("Expected reassembled heart rate 72")
	}
	if updates[1].SpO2 == nil || *updates[1].SpO2 != 97 {
		t.Error("Expected reassembled SpO2 97")
	}
}

func TestStreamSource_MalformedLinesDropped(t *testing.T) {
	pr, pw := io.Pipe()
	source := NewStreamSource(pr)
	sink := &collector{}

	done := make(chan error, 1)
	go func() {
		done <- source.Run(context.Background(), sink.apply)
	}()

	pw.Write([]byte("garbage line\n"))
	pw.Write([]byte("{\"hr\": 72}\n"))
	pw.Write([]byte("\n"))
	pw.Close()

	if err := <-done; err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	// Мусор и пустые строки отброшены, поток не порван
	updates := sink.snapshot()
	if len(updates) != 1 {
		t.Fatalf("Expected 1 update after dropping garbage, got %d", len(updates))
	}
}

func TestStreamSource_TrailingFragmentWithoutNewline(t *testing.T) {
	pr, pw := io.Pipe()
	source := NewStreamSource(pr)
	sink := &collector{}

	done := make(chan error, 1)
	go func() {
		done <- source.Run(context.Background(), sink.apply)
	}()

	// Последняя строка без перевода строки обрабатывается на EOF
	pw.Write([]byte("{\"hr\": 65}"))
	pw.Close()

	if err := <-done; err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	updates := sink.snapshot()
	if len(updates) != 1 {
		t.Fatalf("Expected trailing fragment parsed at EOF, got %d updates", len(updates))
	}
}

func TestStreamSource_CancelUnblocksRead(t *testing.T) {
	pr, _ := io.Pipe()
	source := NewStreamSource(pr)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- source.Run(ctx, func(models.VitalsUpdate) {})
	}()

	// Чтение висит на пустом потоке; отмена контекста обязана
	// разблокировать его детерминированно
	time.Sleep(10 * time.Millisecond)
	if !source.Connected() {
		t.Fatal("Expected source connected while running")
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Expected clean shutdown on cancel, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancel")
	}

	if source.Connected() {
		t.Error("Expected source disconnected after shutdown")
	}
}
