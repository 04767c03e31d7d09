package hardware

import (
	"bufio"
	"context"
	"io"
	"log"
	"sync"

	"github.com/Krimson/patient-monitor/internal/session"
)

// StreamSource читает поток построчных JSON-записей устройства
// (последовательный порт, TCP-мост). Буферизация сохраняет неполный
// хвостовой фрагмент до прихода следующего куска; некорректные строки
// молча отбрасываются и поток не рвут.
type StreamSource struct {
	rc io.ReadCloser

	mu        sync.RWMutex
	connected bool
}

// NewStreamSource создает источник поверх открытого потока устройства
func NewStreamSource(rc io.ReadCloser) *StreamSource {
	return &StreamSource{rc: rc}
}

// Name возвращает имя источника
func (s *StreamSource) Name() string {
	return "hardware"
}

// Connected сообщает, активен ли поток устройства
func (s *StreamSource) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

func (s *StreamSource) setConnected(v bool) {
	s.mu.Lock()
	s.connected = v
	s.mu.Unlock()
}

// Run читает поток до отмены контекста или конца потока. Отмена
// контекста закрывает дескриптор и детерминированно разблокирует
// висящее чтение - ждать следующего куска данных не нужно.
func (s *StreamSource) Run(ctx context.Context, apply session.ApplyFunc) error {
	s.setConnected(true)
	defer s.setConnected(false)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.rc.Close()
		case <-done:
		}
	}()
	defer s.rc.Close()

	reader := bufio.NewReader(s.rc)
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			if update, perr := ParseLine(line); perr == nil {
				apply(update)
			}
			// Некорректная строка отбрасывается молча
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if err == io.EOF {
				log.Printf("[HARDWARE] Device stream ended")
				return nil
			}
			log.Printf("[WARN] Device stream read error: %v", err)
			return err
		}
	}
}
