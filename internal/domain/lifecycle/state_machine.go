// Пакет lifecycle — конечный автомат статусов FileRecord.
//
// Штатный жизненный цикл записи:
//   - uploading → processing → {completed | error}
//
// Повторные входы в processing:
//   - completed → processing — повторная конвертация или re-apply шаблона
//   - error → processing — re-apply шаблона после ошибки
//
// Пакет не хранит состояние: матрица переходов проверяется
// по значению, текущий статус живёт в FileRecord внутри store.
package lifecycle

import (
	"fmt"

	"github.com/bigkaa/renamebox/rename-service/internal/domain/model"
)

// validTransitions — матрица допустимых переходов.
// Ключ — текущий статус, значение — набор допустимых целевых статусов.
var validTransitions = map[model.RecordStatus]map[model.RecordStatus]bool{
	model.StatusUploading:  {model.StatusProcessing: true},
	model.StatusProcessing: {model.StatusCompleted: true, model.StatusError: true},
	model.StatusCompleted:  {model.StatusProcessing: true},
	model.StatusError:      {model.StatusProcessing: true},
}

// TransitionError — ошибка недопустимого перехода между статусами.
type TransitionError struct {
	From model.RecordStatus
	To   model.RecordStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("INVALID_TRANSITION: переход %s → %s недопустим", e.From, e.To)
}

// CanTransition проверяет, допустим ли переход from → to.
func CanTransition(from, to model.RecordStatus) bool {
	targets, ok := validTransitions[from]
	if !ok {
		return false
	}
	return targets[to]
}

// Validate возвращает ошибку, если переход from → to недопустим.
func Validate(from, to model.RecordStatus) error {
	if !CanTransition(from, to) {
		return &TransitionError{From: from, To: to}
	}
	return nil
}

// IsTerminalForRun проверяет, достигла ли запись терминального
// для текущего прогона статуса (completed или error).
// Батч считается завершённым, когда все его записи терминальны.
func IsTerminalForRun(s model.RecordStatus) bool {
	return s == model.StatusCompleted || s == model.StatusError
}

// IsValidStatus проверяет, является ли строка допустимым статусом.
func IsValidStatus(s model.RecordStatus) bool {
	switch s {
	case model.StatusUploading, model.StatusProcessing, model.StatusCompleted, model.StatusError:
		return true
	default:
		return false
	}
}

// ParseStatus преобразует строку в RecordStatus.
// Возвращает ошибку для недопустимых значений.
func ParseStatus(s string) (model.RecordStatus, error) {
	st := model.RecordStatus(s)
	if !IsValidStatus(st) {
		return "", fmt.Errorf("недопустимый статус: %q, допустимые: uploading, processing, completed, error", s)
	}
	return st, nil
}
