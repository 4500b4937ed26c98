// Пакет store — потокобезопасная in-memory коллекция FileRecord.
//
// Коллекция упорядочена по порядку добавления и является единственным
// разделяемым изменяемым состоянием сервиса: все мутации проходят через
// методы Store и атомарны с точки зрения вызывающего кода (никакой
// частичной видимости изменений).
//
// Не персистентна: при рестарте сервис стартует с пустой коллекцией,
// durable-хранилище контрактом не предусмотрено.
package store

import (
	"log/slog"
	"sync"

	"github.com/bigkaa/renamebox/rename-service/internal/api/middleware"
	"github.com/bigkaa/renamebox/rename-service/internal/domain/model"
)

// Store — упорядоченная коллекция записей с доступом по id.
// Использует sync.RWMutex для конкурентного чтения и эксклюзивной записи.
type Store struct {
	mu      sync.RWMutex
	records map[string]*model.FileRecord // id → запись
	order   []string                     // порядок добавления
	counter int                          // монотонный счётчик для токена {counter}
	logger  *slog.Logger
}

// New создаёт пустую коллекцию.
func New(logger *slog.Logger) *Store {
	return &Store{
		records: make(map[string]*model.FileRecord),
		logger:  logger.With(slog.String("component", "store")),
	}
}

// Add добавляет записи в конец коллекции.
// Дубликат id — ошибка программирования: запись пропускается с логом,
// а не перезаписывается (осознанная мягкость вместо паники).
func (s *Store) Add(records ...*model.FileRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range records {
		if _, exists := s.records[rec.ID]; exists {
			s.logger.Error("Дубликат id при добавлении записи, запись пропущена",
				slog.String("record_id", rec.ID),
			)
			continue
		}
		s.records[rec.ID] = rec.Clone()
		s.order = append(s.order, rec.ID)
	}

	s.updateGauges()
}

// Get возвращает копию записи по id или nil, если запись не найдена.
func (s *Store) Get(id string) *model.FileRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil
	}
	return rec.Clone()
}

// List возвращает записи в порядке добавления с опциональной
// фильтрацией по статусу ("" = без фильтра) и ограничением количества
// (0 = все). Второе значение — общее количество с учётом фильтра.
func (s *Store) List(limit int, statusFilter model.RecordStatus) ([]*model.FileRecord, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var filtered []*model.FileRecord
	for _, id := range s.order {
		rec := s.records[id]
		if statusFilter != "" && rec.Status != statusFilter {
			continue
		}
		filtered = append(filtered, rec.Clone())
	}

	total := len(filtered)
	if limit > 0 && limit < total {
		filtered = filtered[:limit]
	}
	return filtered, total
}

// Update применяет мутацию ровно к одной записи, не затрагивая остальные.
// Возвращает false (no-op), если запись не найдена — мутация
// несуществующего id считается мягкой ошибкой программирования.
func (s *Store) Update(id string, mutate func(*model.FileRecord)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		s.logger.Debug("Update несуществующей записи проигнорирован", slog.String("record_id", id))
		return false
	}
	mutate(rec)

	s.updateGauges()
	return true
}

// Remove удаляет запись из коллекции и возвращает её копию
// (вызывающий код удаляет payload-файлы с диска).
// Возвращает nil, если запись не найдена.
func (s *Store) Remove(id string) *model.FileRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return nil
	}
	delete(s.records, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	s.updateGauges()
	return rec
}

// Rename присваивает записи новое имя, добавляя прежнее CurrentName
// (или OriginalName, если имя ещё не присваивалось) в NameHistory.
// Возвращает false, если запись не найдена.
func (s *Store) Rename(id, newName string) bool {
	return s.Update(id, func(rec *model.FileRecord) {
		prev := rec.CurrentName
		if prev == "" {
			prev = rec.OriginalName
		}
		rec.NameHistory = append(rec.NameHistory, prev)
		rec.CurrentName = newName
	})
}

// UndoRename снимает последний элемент NameHistory и восстанавливает
// его в CurrentName. No-op при пустой истории: CurrentName не меняется.
// Возвращает false, если запись не найдена.
func (s *Store) UndoRename(id string) bool {
	return s.Update(id, func(rec *model.FileRecord) {
		if len(rec.NameHistory) == 0 {
			return
		}
		last := len(rec.NameHistory) - 1
		rec.CurrentName = rec.NameHistory[last]
		rec.NameHistory = rec.NameHistory[:last]
	})
}

// NextCounter возвращает следующее значение монотонного счётчика
// для токена {counter}. Значения детерминированы в рамках коллекции
// и лежат в диапазоне [0, 1000).
func (s *Store) NextCounter() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.counter % 1000
	s.counter++
	return v
}

// Count возвращает общее количество записей.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// CountByStatus возвращает количество записей с указанным статусом.
func (s *Store) CountByStatus(status model.RecordStatus) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, rec := range s.records {
		if rec.Status == status {
			count++
		}
	}
	return count
}

// updateGauges обновляет Prometheus-метрики количества записей.
// Вызывается под мьютексом из мутирующих методов.
func (s *Store) updateGauges() {
	counts := map[model.RecordStatus]int{
		model.StatusUploading:  0,
		model.StatusProcessing: 0,
		model.StatusCompleted:  0,
		model.StatusError:      0,
	}
	for _, rec := range s.records {
		counts[rec.Status]++
	}
	for status, n := range counts {
		middleware.RecordsTotal.WithLabelValues(string(status)).Set(float64(n))
	}
}
