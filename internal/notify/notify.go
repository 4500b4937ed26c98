// Пакет notify — лента уведомлений пользователя.
//
// Все советующие (advisory) исходы — откаты именования, результаты
// экспорта, ошибки обработки отдельных файлов — публикуются сюда как
// неблокирующие уведомления и дублируются в лог. Лента хранится
// в памяти кольцом фиксированной ёмкости и отдаётся клиенту через
// GET /api/v1/notifications.
package notify

import (
	"log/slog"
	"sync"
	"time"
)

// Level — уровень уведомления.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice — одно уведомление.
type Notice struct {
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Feed — потокобезопасная лента уведомлений фиксированной ёмкости.
// При переполнении старейшие уведомления вытесняются.
type Feed struct {
	mu       sync.Mutex
	items    []Notice
	capacity int
	logger   *slog.Logger
}

// NewFeed создаёт ленту с указанной ёмкостью.
func NewFeed(capacity int, logger *slog.Logger) *Feed {
	if capacity <= 0 {
		capacity = 100
	}
	return &Feed{
		capacity: capacity,
		logger:   logger.With(slog.String("component", "notify")),
	}
}

// Info публикует информационное уведомление.
func (f *Feed) Info(message string) {
	f.add(LevelInfo, message)
	f.logger.Info(message)
}

// Success публикует уведомление об успешном завершении операции.
func (f *Feed) Success(message string) {
	f.add(LevelSuccess, message)
	f.logger.Info(message)
}

// Error публикует уведомление об ошибке. Ошибка не блокирует
// обработку: это сигнал пользователю, а не исключение.
func (f *Feed) Error(message string) {
	f.add(LevelError, message)
	f.logger.Warn(message)
}

// Recent возвращает уведомления, новые первыми.
// limit — максимальное количество (0 = все).
func (f *Feed) Recent(limit int) []Notice {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := len(f.items)
	if limit > 0 && limit < n {
		n = limit
	}

	result := make([]Notice, 0, n)
	for i := len(f.items) - 1; i >= 0 && len(result) < n; i-- {
		result = append(result, f.items[i])
	}
	return result
}

// Len возвращает текущее количество уведомлений в ленте.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

func (f *Feed) add(level Level, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append(f.items, Notice{
		Level:     level,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	})
	if len(f.items) > f.capacity {
		f.items = f.items[len(f.items)-f.capacity:]
	}
}
