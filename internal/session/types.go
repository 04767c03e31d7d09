package session

import (
	"context"
	"errors"
	"time"

	"github.com/Krimson/patient-monitor/internal/models"
)

// State представляет состояние сессии мониторинга
type State string

const (
	StateReady      State = "READY"
	StateMonitoring State = "MONITORING"
	StateAnalyzing  State = "ANALYZING"
	StateComplete   State = "COMPLETE"
)

// Ошибки контроллера сессии
var (
	ErrSessionActive = errors.New("session already in progress")
	ErrNoSource      = errors.New("no vital source configured")
)

// ApplyFunc принимает обновление показателей от источника. Контроллер
// сериализует все вызовы; устаревшие обновления (после стопа или
// рестарта) молча игнорируются.
type ApplyFunc func(models.VitalsUpdate)

// Source - источник жизненных показателей: симулятор или аппаратный
// адаптер. В одной сессии активен ровно один источник.
type Source interface {
	// Name возвращает имя источника для логов и отчета
	Name() string

	// Run доставляет обновления через apply до отмены контекста.
	// Симулятор владеет собственным тиком; аппаратный источник
	// доставляет по мере прихода строк.
	Run(ctx context.Context, apply ApplyFunc) error
}

// Analyzer - пост-сессионный конвейер: инференс + снимки графиков
type Analyzer interface {
	Analyze(ctx context.Context, vitals models.VitalSigns, leads [models.NumLeads][]models.EcgSample) (*models.AnalysisResult, [models.NumLeads][]byte)
}

// Reporter - потребитель готового отчета на переходе в COMPLETE
type Reporter interface {
	Deliver(ctx context.Context, report *models.Report) error
}

// StartRequest - параметры запуска сессии
type StartRequest struct {
	Source  Source
	Contact string
}

// Status - наблюдаемое состояние сессии для API и веб-сокета
type Status struct {
	SessionID  string            `json:"session_id"`
	State      State             `json:"state"`
	SourceName string            `json:"source,omitempty"`
	StartedAt  time.Time         `json:"started_at,omitempty"`
	Vitals     models.VitalSigns `json:"vitals"`
}

// LiveUpdate - данные одного тика для трансляции подписчикам
type LiveUpdate struct {
	SessionID string                    `json:"session_id"`
	State     State                     `json:"state"`
	Vitals    models.VitalSigns         `json:"vitals"`
	Ecg       [models.NumLeads]*float64 `json:"ecg"`
}
