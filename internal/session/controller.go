package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Krimson/patient-monitor/internal/config"
	"github.com/Krimson/patient-monitor/internal/ecg"
	"github.com/Krimson/patient-monitor/internal/models"
	"github.com/google/uuid"
)

// Controller владеет состоянием сессии, таймерами и снимком показателей.
// Все мутации сериализуются мьютексом: тик источника, сессионный
// таймаут и явный стоп не могут изменять снимок одновременно. Снимок
// показателей заменяется целиком на каждом обновлении.
type Controller struct {
	cfg      config.SessionConfig
	baseline float64
	analyzer Analyzer
	reporter Reporter

	mu         sync.RWMutex
	gen        uint64 // инкремент на каждый старт: защита от устаревших тиков
	state      State
	sessionID  string
	contact    string
	sourceName string
	startedAt  time.Time
	vitals     models.VitalSigns
	windows    *ecg.WindowSet
	result     *models.AnalysisResult
	report     *models.Report
	cancel     context.CancelFunc // останавливает Run источника
	timer      *time.Timer        // одноразовый сессионный таймаут

	notify func(LiveUpdate)
}

// NewController создает контроллер в состоянии READY
func NewController(cfg config.SessionConfig, ecgBaseline float64, analyzer Analyzer, reporter Reporter) *Controller {
	windows := ecg.NewWindowSet(cfg.EcgWindowLength)
	windows.Reset(ecgBaseline)
	return &Controller{
		cfg:      cfg,
		baseline: ecgBaseline,
		analyzer: analyzer,
		reporter: reporter,
		state:    StateReady,
		windows:  windows,
	}
}

// SetNotifier устанавливает подписчика на обновления тиков (веб-сокет).
// Вызывается до старта первой сессии.
func (c *Controller) SetNotifier(fn func(LiveUpdate)) {
	c.mu.Lock()
	c.notify = fn
	c.mu.Unlock()
}

// Start запускает новую сессию. Допустим только из READY или COMPLETE;
// старт из COMPLETE сбрасывает все производное состояние прошлой сессии.
func (c *Controller) Start(req StartRequest) (string, error) {
	if req.Source == nil {
		return "", ErrNoSource
	}

	c.mu.Lock()
	if c.state != StateReady && c.state != StateComplete {
		c.mu.Unlock()
		return "", ErrSessionActive
	}

	c.gen++
	gen := c.gen
	c.state = StateMonitoring
	c.sessionID = uuid.New().String()
	c.contact = req.Contact
	c.sourceName = req.Source.Name()
	c.startedAt = time.Now()
	c.vitals = models.VitalSigns{}
	c.windows.Reset(c.baseline)
	c.result = nil
	c.report = nil

	runCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.timer = time.AfterFunc(c.cfg.Duration, func() {
		log.Printf("[SESSION] Session timeout fired: %s", c.sessionIDSnapshot())
		c.stop(gen)
	})

	sessionID := c.sessionID
	source := req.Source
	c.mu.Unlock()

	go func() {
		if err := source.Run(runCtx, func(u models.VitalsUpdate) { c.apply(gen, u) }); err != nil && runCtx.Err() == nil {
			log.Printf("[WARN] Vital source %s stopped with error: %v", source.Name(), err)
		}
	}()

	log.Printf("[SESSION] Started session %s (source: %s)", sessionID, source.Name())
	return sessionID, nil
}

// Stop завершает текущую сессию. Идемпотентен: вызов вне MONITORING -
// no-op.
func (c *Controller) Stop() {
	c.mu.RLock()
	gen := c.gen
	c.mu.RUnlock()
	c.stop(gen)
}

// stop - общая процедура остановки для явного стопа и таймаута. Таймеры
// отменяются ровно один раз; повторный вызов видит состояние уже не
// MONITORING и ничего не делает.
func (c *Controller) stop(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.state != StateMonitoring {
		c.mu.Unlock()
		return
	}

	c.state = StateAnalyzing
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}

	sessionID := c.sessionID
	vitals := c.vitals
	leads := c.windows.Snapshot()
	c.mu.Unlock()

	log.Printf("[SESSION] Stopped session %s, analyzing...", sessionID)
	go c.runPipeline(gen, vitals, leads)
}

// runPipeline выполняет пост-обработку и переводит сессию в COMPLETE.
// Сессия всегда достигает COMPLETE: отказы коллабораторов дают
// деградированный результат, а не зависание.
func (c *Controller) runPipeline(gen uint64, vitals models.VitalSigns, leads [models.NumLeads][]models.EcgSample) {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.PipelineTimeout)
	defer cancel()

	result, images := c.analyzer.Analyze(ctx, vitals, leads)

	c.mu.Lock()
	if gen != c.gen || c.state != StateAnalyzing {
		c.mu.Unlock()
		return
	}
	c.result = result
	report := &models.Report{
		SessionID:   c.sessionID,
		Contact:     c.contact,
		StartedAt:   c.startedAt,
		CompletedAt: time.Now(),
		Vitals:      vitals,
		Result:      result,
		ChartImages: images,
	}
	c.report = report
	c.state = StateComplete
	sessionID := c.sessionID
	c.mu.Unlock()

	log.Printf("[SESSION] Session complete: %s (diagnosis: %s)", sessionID, result.PotentialDiagnosis)

	if c.reporter != nil {
		if err := c.reporter.Deliver(ctx, report); err != nil {
			log.Printf("[WARN] Failed to deliver report for session %s: %v", sessionID, err)
		}
	}
}

// apply вливает обновление от источника. Обновления устаревшего
// поколения или вне MONITORING отбрасываются: отмененный тик не может
// выстрелить в сброшенное состояние.
func (c *Controller) apply(gen uint64, u models.VitalsUpdate) {
	c.mu.Lock()
	if gen != c.gen || c.state != StateMonitoring {
		c.mu.Unlock()
		return
	}

	c.vitals = u.Merge(c.vitals)
	for i, v := range u.Ecg {
		if v != nil {
			c.windows.Append(models.Lead(i), *v)
		}
	}

	notify := c.notify
	live := LiveUpdate{
		SessionID: c.sessionID,
		State:     c.state,
		Vitals:    c.vitals,
		Ecg:       u.Ecg,
	}
	c.mu.Unlock()

	if notify != nil {
		notify(live)
	}
}

// State возвращает текущее состояние сессии
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Status возвращает наблюдаемый снимок сессии
func (c *Controller) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Status{
		SessionID:  c.sessionID,
		State:      c.state,
		SourceName: c.sourceName,
		StartedAt:  c.startedAt,
		Vitals:     c.vitals,
	}
}

// Vitals возвращает текущий снимок показателей
func (c *Controller) Vitals() models.VitalSigns {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vitals
}

// Windows возвращает копии окон ЭКГ всех отведений
func (c *Controller) Windows() [models.NumLeads][]models.EcgSample {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.windows.Snapshot()
}

// Result возвращает результат анализа завершенной сессии (nil до
// COMPLETE)
func (c *Controller) Result() *models.AnalysisResult {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.result
}

// Report возвращает итоговый отчет завершенной сессии (nil до COMPLETE)
func (c *Controller) Report() *models.Report {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.report
}

func (c *Controller) sessionIDSnapshot() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}
