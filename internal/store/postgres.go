package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/Krimson/patient-monitor/internal/models"
)

// ReportRepository архивирует отчеты завершенных сессий в PostgreSQL
type ReportRepository struct {
	db *sql.DB
}

// NewReportRepository создает новый экземпляр ReportRepository
func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{
		db: db,
	}
}

// NewReportRepositoryFromDSN создает репозиторий из строки подключения
func NewReportRepositoryFromDSN(dsn string) (*ReportRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Настройки пула соединений
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &ReportRepository{db: db}, nil
}

// EnsureSchema создает таблицу отчетов, если ее еще нет
func (r *ReportRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS reports (
			session_id   TEXT PRIMARY KEY,
			contact      TEXT,
			started_at   TIMESTAMPTZ NOT NULL,
			completed_at TIMESTAMPTZ NOT NULL,
			vitals       JSONB NOT NULL,
			result       JSONB NOT NULL
		)
	`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create reports table: %w", err)
	}
	return nil
}

// Close закрывает соединение с БД
func (r *ReportRepository) Close() error {
	return r.db.Close()
}

// Deliver архивирует отчет (реализация session.Reporter)
func (r *ReportRepository) Deliver(ctx context.Context, report *models.Report) error {
	vitalsJSON, err := json.Marshal(report.Vitals)
	if err != nil {
		return fmt.Errorf("failed to marshal vitals: %w", err)
	}
	resultJSON, err := json.Marshal(report.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	query := `
		INSERT INTO reports (session_id, contact, started_at, completed_at, vitals, result)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (session_id) DO NOTHING
	`

	_, err = r.db.ExecContext(ctx, query,
		report.SessionID,
		report.Contact,
		report.StartedAt,
		report.CompletedAt,
		vitalsJSON,
		resultJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// GetReport возвращает архивный отчет по идентификатору сессии
func (r *ReportRepository) GetReport(ctx context.Context, sessionID string) (*models.Report, error) {
	query := `
		SELECT session_id, contact, started_at, completed_at, vitals, result
		FROM reports
		WHERE session_id = $1
	`

	var (
		report     models.Report
		vitalsJSON []byte
		resultJSON []byte
	)
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&report.SessionID,
		&report.Contact,
		&report.StartedAt,
		&report.CompletedAt,
		&vitalsJSON,
		&resultJSON,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("report not found: %s", sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	if err := json.Unmarshal(vitalsJSON, &report.Vitals); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vitals: %w", err)
	}
	if err := json.Unmarshal(resultJSON, &report.Result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &report, nil
}

// ListReports возвращает страницу архивных отчетов, новые первыми
func (r *ReportRepository) ListReports(ctx context.Context, limit, offset int) ([]*models.Report, error) {
	query := `
		SELECT session_id, contact, started_at, completed_at, vitals, result
		FROM reports
		ORDER BY completed_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.Report
	for rows.Next() {
		var (
			report     models.Report
			vitalsJSON []byte
			resultJSON []byte
		)
		if err := rows.Scan(
			&report.SessionID,
			&report.Contact,
			&report.StartedAt,
			&report.CompletedAt,
			&vitalsJSON,
			&resultJSON,
		); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		if err := json.Unmarshal(vitalsJSON, &report.Vitals); err != nil {
			return nil, fmt.Errorf("failed to unmarshal vitals: %w", err)
		}
		if err := json.Unmarshal(resultJSON, &report.Result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}
		reports = append(reports, &report)
	}
	return reports, rows.Err()
}
