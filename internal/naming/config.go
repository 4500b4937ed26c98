// Пакет naming — стратегии присвоения имён файлам.
//
// Две стратегии:
//   - content_analysis — имя предлагает анализатор содержимого,
//     при любом его отказе выполняется откат к шаблону
//   - token_pattern — детерминированная подстановка токенов в шаблон
//
// config.go — активная конфигурация именования с одноуровневым undo.
package naming

import (
	"fmt"
	"sync"
)

// Mode — режим именования.
type Mode string

const (
	// ModeContentAnalysis — имя предлагает анализатор содержимого
	ModeContentAnalysis Mode = "content_analysis"
	// ModeTokenPattern — имя строится подстановкой токенов в шаблон
	ModeTokenPattern Mode = "token_pattern"
)

// Settings — конфигурация именования.
type Settings struct {
	// Mode — активная стратегия
	Mode Mode `json:"mode"`
	// Pattern — шаблон с токенами, используется при mode = token_pattern
	Pattern string `json:"pattern,omitempty"`
}

// Manager — держатель активной конфигурации с явной двухслотовой
// историей (current, previous). Undo одноуровневый: повторный Undo
// без промежуточного Set — no-op. Конфигурация передаётся
// явно через Manager, скрытых изменяемых глобалов нет.
type Manager struct {
	mu       sync.RWMutex
	current  Settings
	previous *Settings
}

// NewManager создаёт держатель конфигурации с начальным значением.
func NewManager(initial Settings) *Manager {
	return &Manager{current: initial}
}

// Current возвращает активную конфигурацию.
func (m *Manager) Current() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Previous возвращает снимок конфигурации до последнего изменения
// и признак его наличия.
func (m *Manager) Previous() (Settings, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.previous == nil {
		return Settings{}, false
	}
	return *m.previous, true
}

// Set делает next активной конфигурацией, сохраняя прежнюю
// в слот previous.
func (m *Manager) Set(next Settings) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.current
	m.previous = &prev
	m.current = next
}

// Undo откатывает последнее изменение конфигурации: previous
// становится current, слот previous очищается (одноуровневая история).
// Возвращает восстановленную конфигурацию и true, либо false,
// если откатывать нечего.
func (m *Manager) Undo() (Settings, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.previous == nil {
		return Settings{}, false
	}
	m.current = *m.previous
	m.previous = nil
	return m.current, true
}

// ParseMode преобразует строку в Mode.
// Возвращает ошибку для недопустимых значений.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	switch m {
	case ModeContentAnalysis, ModeTokenPattern:
		return m, nil
	default:
		return "", fmt.Errorf("недопустимый режим именования: %q, допустимые: content_analysis, token_pattern", s)
	}
}
