package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Krimson/patient-monitor/internal/models"
	"github.com/Krimson/patient-monitor/internal/session"
	"github.com/Krimson/patient-monitor/internal/store"
)

// SimulatorFactory создает свежий симулятор для пациента заданного
// возраста
type SimulatorFactory func(age int) (session.Source, error)

// HTTPHandler обрабатывает HTTP запросы панели мониторинга
type HTTPHandler struct {
	controller   *session.Controller
	hub          *Hub
	newSimulator SimulatorFactory
	hardware     session.Source // nil, если аппаратный источник не настроен
	reports      *store.ReportRepository
	cache        *store.RedisStore
	defaultAge   int
}

// NewHTTPHandler создает новый HTTP обработчик
func NewHTTPHandler(
	controller *session.Controller,
	hub *Hub,
	newSimulator SimulatorFactory,
	hardware session.Source,
	reports *store.ReportRepository,
	cache *store.RedisStore,
	defaultAge int,
) *HTTPHandler {
	return &HTTPHandler{
		controller:   controller,
		hub:          hub,
		newSimulator: newSimulator,
		hardware:     hardware,
		reports:      reports,
		cache:        cache,
		defaultAge:   defaultAge,
	}
}

// RegisterRoutes регистрирует маршруты в роутере
func (h *HTTPHandler) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api/sessions").Subrouter()

	api.HandleFunc("/start", h.StartSession).Methods("POST")
	api.HandleFunc("/stop", h.StopSession).Methods("POST")
	api.HandleFunc("/current", h.GetCurrentSession).Methods("GET")
	api.HandleFunc("/current/ecg", h.GetCurrentEcg).Methods("GET")
	api.HandleFunc("", h.ListReports).Methods("GET")
	api.HandleFunc("/{id}/report", h.GetReport).Methods("GET")
	api.HandleFunc("/{id}/chart/{lead}", h.GetChartImage).Methods("GET")

	router.HandleFunc("/ws", h.hub.HandleWebSocket)
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)
}

// StartRequest - тело запроса на запуск сессии
type StartRequest struct {
	Source     string `json:"source,omitempty"` // "simulator" (по умолчанию) или "hardware"
	PatientAge int    `json:"patient_age,omitempty"`
	Contact    string `json:"contact,omitempty"`
}

// StartSession запускает новую сессию мониторинга
// @Summary Запуск сессии мониторинга
// @Accept json
// @Produce json
// @Param request body StartRequest false "Параметры сессии"
// @Success 201 {object} session.Status
// @Router /api/sessions/start [post]
func (h *HTTPHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Пустое тело допустимо: симулятор с настройками по умолчанию
		req = StartRequest{}
	}

	source, err := h.resolveSource(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sessionID, err := h.controller.Start(session.StartRequest{
		Source:  source,
		Contact: req.Contact,
	})
	if err != nil {
		if err == session.ErrSessionActive {
			respondError(w, http.StatusConflict, "Session already in progress")
			return
		}
		log.Printf("[ERROR] Failed to start session: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to start session")
		return
	}

	status := h.controller.Status()
	status.SessionID = sessionID
	respondJSON(w, http.StatusCreated, status)
}

func (h *HTTPHandler) resolveSource(req StartRequest) (session.Source, error) {
	switch req.Source {
	case "", "simulator":
		age := req.PatientAge
		if age == 0 {
			age = h.defaultAge
		}
		return h.newSimulator(age)
	case "hardware":
		if h.hardware == nil {
			return nil, session.ErrNoSource
		}
		return h.hardware, nil
	default:
		return nil, session.ErrNoSource
	}
}

// StopSession останавливает текущую сессию (идемпотентно)
// @Summary Остановка сессии
// @Produce json
// @Success 200 {object} session.Status
// @Router /api/sessions/stop [post]
func (h *HTTPHandler) StopSession(w http.ResponseWriter, r *http.Request) {
	h.controller.Stop()
	respondJSON(w, http.StatusOK, h.controller.Status())
}

// GetCurrentSession возвращает состояние текущей сессии
// @Summary Текущая сессия
// @Produce json
// @Success 200 {object} session.Status
// @Router /api/sessions/current [get]
func (h *HTTPHandler) GetCurrentSession(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.controller.Status())
}

// GetCurrentEcg возвращает окна ЭКГ текущей сессии
// @Summary Окна ЭКГ текущей сессии
// @Produce json
// @Success 200 {object} map[string][]models.EcgSample
// @Router /api/sessions/current/ecg [get]
func (h *HTTPHandler) GetCurrentEcg(w http.ResponseWriter, r *http.Request) {
	windows := h.controller.Windows()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"lead_i":   windows[models.LeadI],
		"lead_ii":  windows[models.LeadII],
		"lead_iii": windows[models.LeadIII],
	})
}

// GetReport возвращает отчет завершенной сессии
// @Summary Отчет сессии
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} models.Report
// @Router /api/sessions/{id}/report [get]
func (h *HTTPHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	// Текущая завершенная сессия отдается из памяти
	if report := h.controller.Report(); report != nil && report.SessionID == sessionID {
		respondJSON(w, http.StatusOK, report)
		return
	}

	// Иначе пробуем кэш, затем архив
	if h.cache != nil {
		if report, err := h.cache.GetReport(r.Context(), sessionID); err == nil {
			respondJSON(w, http.StatusOK, report)
			return
		}
	}
	if h.reports != nil {
		if report, err := h.reports.GetReport(r.Context(), sessionID); err == nil {
			respondJSON(w, http.StatusOK, report)
			return
		}
	}

	respondError(w, http.StatusNotFound, "Report not found")
}

// GetChartImage возвращает снимок графика отведения
// @Summary Снимок графика отведения
// @Produce png
// @Param id path string true "ID сессии"
// @Param lead path int true "Номер отведения (0-2)"
// @Success 200 {file} binary
// @Router /api/sessions/{id}/chart/{lead} [get]
func (h *HTTPHandler) GetChartImage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["id"]
	lead, err := strconv.Atoi(vars["lead"])
	if err != nil || lead < 0 || lead >= models.NumLeads {
		respondError(w, http.StatusBadRequest, "Invalid lead index")
		return
	}

	if report := h.controller.Report(); report != nil && report.SessionID == sessionID {
		if img := report.ChartImages[lead]; img != nil {
			w.Header().Set("Content-Type", "image/png")
			w.Write(img)
			return
		}
	}

	if h.cache != nil {
		if img, err := h.cache.GetChartImage(r.Context(), sessionID, models.Lead(lead)); err == nil {
			w.Header().Set("Content-Type", "image/png")
			w.Write(img)
			return
		}
	}

	respondError(w, http.StatusNotFound, "Chart image not found")
}

// ListReports возвращает список архивных отчетов
// @Summary Список отчетов
// @Produce json
// @Param limit query int false "Лимит" default(50)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} map[string]interface{}
// @Router /api/sessions [get]
func (h *HTTPHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	if h.reports == nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{"reports": []*models.Report{}, "count": 0})
		return
	}

	limit := getQueryInt(r, "limit", 50)
	offset := getQueryInt(r, "offset", 0)

	reports, err := h.reports.ListReports(r.Context(), limit, offset)
	if err != nil {
		log.Printf("[ERROR] Failed to list reports: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to list reports")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"reports": reports,
		"limit":   limit,
		"offset":  offset,
		"count":   len(reports),
	})
}

// ===== Утилиты =====

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[ERROR] Failed to encode JSON response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":  message,
		"status": status,
	})
}

func getQueryInt(r *http.Request, key string, defaultValue int) int {
	valueStr := r.URL.Query().Get(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
