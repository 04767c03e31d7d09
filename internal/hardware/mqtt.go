package hardware

import (
	"context"
	"log"
	"strings"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/Krimson/patient-monitor/internal/config"
	"github.com/Krimson/patient-monitor/internal/session"
)

// MQTTSource - аппаратный источник поверх MQTT: мониторы публикуют те
// же построчные JSON-записи в топик. Записи проходят через общий
// парсер, payload может содержать несколько строк.
type MQTTSource struct {
	cfg config.HardwareConfig

	mu        sync.RWMutex
	connected bool
}

// NewMQTTSource создает MQTT-источник
func NewMQTTSource(cfg config.HardwareConfig) *MQTTSource {
	return &MQTTSource{cfg: cfg}
}

// Name возвращает имя источника
func (m *MQTTSource) Name() string {
	return "hardware-mqtt"
}

// Connected сообщает, установлено ли соединение с брокером
func (m *MQTTSource) Connected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

func (m *MQTTSource) setConnected(v bool) {
	m.mu.Lock()
	m.connected = v
	m.mu.Unlock()
}

// Run подключается к брокеру, подписывается на топик и доставляет
// записи до отмены контекста
func (m *MQTTSource) Run(ctx context.Context, apply session.ApplyFunc) error {
	handler := func(client mqtt.Client, msg mqtt.Message) {
		for _, line := range strings.Split(string(msg.Payload()), "\n") {
			if update, err := ParseLine(line); err == nil {
				apply(update)
			}
		}
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(m.cfg.MQTTBroker)
	opts.SetClientID(m.cfg.MQTTClientID)
	opts.SetUsername(m.cfg.MQTTUsername)
	opts.SetPassword(m.cfg.MQTTPassword)
	opts.OnConnect = func(client mqtt.Client) {
		log.Printf("[HARDWARE] Connected to MQTT broker %s", m.cfg.MQTTBroker)
		m.setConnected(true)
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		log.Printf("[WARN] MQTT connection lost: %v", err)
		m.setConnected(false)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer func() {
		client.Disconnect(250)
		m.setConnected(false)
	}()

	if token := client.Subscribe(m.cfg.MQTTTopic, 1, handler); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("[HARDWARE] Subscribed to topic: %s", m.cfg.MQTTTopic)

	<-ctx.Done()
	return nil
}
