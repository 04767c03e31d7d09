package hardware

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/Krimson/patient-monitor/internal/session"
)

const tcpDialTimeout = 5 * time.Second

// TCPSource подключается к TCP-мосту устройства. Соединение
// устанавливается на каждый запуск сессии заново, поэтому один
// источник можно переиспользовать между сессиями.
type TCPSource struct {
	addr string
}

// NewTCPSource создает источник для адреса TCP-моста устройства
func NewTCPSource(addr string) *TCPSource {
	return &TCPSource{addr: addr}
}

// Name возвращает имя источника
func (t *TCPSource) Name() string {
	return "hardware"
}

// Run подключается к устройству и читает поток до отмены контекста
func (t *TCPSource) Run(ctx context.Context, apply session.ApplyFunc) error {
	dialer := net.Dialer{Timeout: tcpDialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	log.Printf("[HARDWARE] Connected to device bridge at %s", t.addr)

	stream := NewStreamSource(conn)
	return stream.Run(ctx, apply)
}
