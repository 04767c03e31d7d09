package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Krimson/patient-monitor/internal/models"
)

// RedisStore кэширует готовые отчеты с TTL и хранит снимки графиков
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore создает новый экземпляр RedisStore
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

// ===== Ключи Redis =====

func reportKey(sessionID string) string {
	return fmt.Sprintf("report:%s", sessionID)
}

func chartKey(sessionID string, lead models.Lead) string {
	return fmt.Sprintf("report:%s:chart:%d", sessionID, int(lead))
}

// Deliver сохраняет отчет завершенной сессии (реализация
// session.Reporter)
func (r *RedisStore) Deliver(ctx context.Context, report *models.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := r.client.Set(ctx, reportKey(report.SessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}

	for i, img := range report.ChartImages {
		if img == nil {
			continue
		}
		key := chartKey(report.SessionID, models.Lead(i))
		if err := r.client.Set(ctx, key, img, r.ttl).Err(); err != nil {
			return fmt.Errorf("failed to cache chart image: %w", err)
		}
	}
	return nil
}

// GetReport возвращает отчет из кэша
func (r *RedisStore) GetReport(ctx context.Context, sessionID string) (*models.Report, error) {
	data, err := r.client.Get(ctx, reportKey(sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("report not found: %s", sessionID)
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var report models.Report
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

// GetChartImage возвращает снимок графика отведения
func (r *RedisStore) GetChartImage(ctx context.Context, sessionID string, lead models.Lead) ([]byte, error) {
	data, err := r.client.Get(ctx, chartKey(sessionID, lead)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("chart image not found: %s", sessionID)
		}
		return nil, fmt.Errorf("failed to get chart image: %w", err)
	}
	return data, nil
}
