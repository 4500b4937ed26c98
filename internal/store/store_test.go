package store

import (
	"io"
	"log/slog"
	"testing"

	"github.com/bigkaa/renamebox/rename-service/internal/domain/model"
)

func newTestStore() *Store {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(logger)
}

func newRecord(id, name string) *model.FileRecord {
	return &model.FileRecord{
		ID:           id,
		OriginalName: name,
		Status:       model.StatusUploading,
		ContentType:  "text/plain",
	}
}

// TestAddAndGet проверяет добавление и чтение записей.
func TestAddAndGet(t *testing.T) {
	s := newTestStore()
	s.Add(newRecord("a", "a.txt"), newRecord("b", "b.txt"))

	rec := s.Get("a")
	if rec == nil {
		t.Fatal("запись a не найдена")
	}
	if rec.OriginalName != "a.txt" {
		t.Errorf("OriginalName: хотели a.txt, получили %s", rec.OriginalName)
	}

	if s.Get("missing") != nil {
		t.Error("Get несуществующей записи должен вернуть nil")
	}

	// Get возвращает копию: мутация не видна хранилищу
	rec.OriginalName = "mutated.txt"
	if s.Get("a").OriginalName != "a.txt" {
		t.Error("мутация копии не должна влиять на хранилище")
	}
}

// TestAddDuplicateID проверяет, что дубликат id пропускается.
func TestAddDuplicateID(t *testing.T) {
	s := newTestStore()
	s.Add(newRecord("a", "first.txt"))
	s.Add(newRecord("a", "second.txt"))

	if s.Count() != 1 {
		t.Fatalf("Count: хотели 1, получили %d", s.Count())
	}
	if got := s.Get("a").OriginalName; got != "first.txt" {
		t.Errorf("дубликат не должен перезаписывать запись: получили %s", got)
	}
}

// TestListOrder проверяет, что List сохраняет порядок добавления.
func TestListOrder(t *testing.T) {
	s := newTestStore()
	s.Add(newRecord("c", "c.txt"))
	s.Add(newRecord("a", "a.txt"))
	s.Add(newRecord("b", "b.txt"))

	records, total := s.List(0, "")
	if total != 3 {
		t.Fatalf("total: хотели 3, получили %d", total)
	}

	wantOrder := []string{"c", "a", "b"}
	for i, want := range wantOrder {
		if records[i].ID != want {
			t.Errorf("позиция %d: хотели %s, получили %s", i, want, records[i].ID)
		}
	}
}

// TestListFilterAndLimit проверяет фильтр по статусу и лимит.
func TestListFilterAndLimit(t *testing.T) {
	s := newTestStore()
	s.Add(newRecord("a", "a.txt"), newRecord("b", "b.txt"), newRecord("c", "c.txt"))
	s.Update("b", func(rec *model.FileRecord) {
		rec.Status = model.StatusProcessing
	})

	records, total := s.List(0, model.StatusUploading)
	if total != 2 || len(records) != 2 {
		t.Fatalf("фильтр uploading: хотели 2 записи, получили %d (total %d)", len(records), total)
	}

	records, total = s.List(1, "")
	if len(records) != 1 {
		t.Errorf("limit 1: хотели 1 запись, получили %d", len(records))
	}
	if total != 3 {
		t.Errorf("total при limit должен считать все записи: хотели 3, получили %d", total)
	}
}

// TestUpdate проверяет мутацию записи и no-op для отсутствующего id.
func TestUpdate(t *testing.T) {
	s := newTestStore()
	s.Add(newRecord("a", "a.txt"))

	ok := s.Update("a", func(rec *model.FileRecord) {
		rec.Progress = 50
	})
	if !ok {
		t.Fatal("Update существующей записи должен вернуть true")
	}
	if s.Get("a").Progress != 50 {
		t.Errorf("Progress: хотели 50, получили %d", s.Get("a").Progress)
	}

	if s.Update("missing", func(rec *model.FileRecord) { rec.Progress = 1 }) {
		t.Error("Update несуществующей записи должен вернуть false")
	}
}

// TestRemove проверяет удаление записи с сохранением порядка остальных.
func TestRemove(t *testing.T) {
	s := newTestStore()
	s.Add(newRecord("a", "a.txt"), newRecord("b", "b.txt"), newRecord("c", "c.txt"))

	removed := s.Remove("b")
	if removed == nil || removed.ID != "b" {
		t.Fatal("Remove должен вернуть удалённую запись")
	}
	if s.Remove("b") != nil {
		t.Error("повторный Remove должен вернуть nil")
	}

	records, _ := s.List(0, "")
	if len(records) != 2 || records[0].ID != "a" || records[1].ID != "c" {
		t.Errorf("порядок после удаления нарушен: %v", []string{records[0].ID, records[1].ID})
	}
}

// TestRenameAndUndo проверяет историю переименований.
func TestRenameAndUndo(t *testing.T) {
	s := newTestStore()
	s.Add(newRecord("a", "original.txt"))

	// первое переименование: в историю попадает исходное имя
	if !s.Rename("a", "first.txt") {
		t.Fatal("Rename должен вернуть true")
	}
	rec := s.Get("a")
	if rec.CurrentName != "first.txt" {
		t.Errorf("CurrentName: хотели first.txt, получили %s", rec.CurrentName)
	}
	if len(rec.NameHistory) != 1 || rec.NameHistory[0] != "original.txt" {
		t.Errorf("NameHistory: хотели [original.txt], получили %v", rec.NameHistory)
	}

	s.Rename("a", "second.txt")
	rec = s.Get("a")
	if len(rec.NameHistory) != 2 || rec.NameHistory[1] != "first.txt" {
		t.Errorf("NameHistory: хотели [original.txt first.txt], получили %v", rec.NameHistory)
	}

	// откаты снимают по одному имени
	if !s.UndoRename("a") {
		t.Fatal("UndoRename должен вернуть true")
	}
	rec = s.Get("a")
	if rec.CurrentName != "first.txt" || len(rec.NameHistory) != 1 {
		t.Errorf("после отката: CurrentName=%s, history=%v", rec.CurrentName, rec.NameHistory)
	}

	s.UndoRename("a")
	rec = s.Get("a")
	if rec.CurrentName != "original.txt" || len(rec.NameHistory) != 0 {
		t.Errorf("после второго отката: CurrentName=%s, history=%v", rec.CurrentName, rec.NameHistory)
	}

	// пустая история — no-op, имя не меняется
	s.UndoRename("a")
	if s.Get("a").CurrentName != "original.txt" {
		t.Error("откат с пустой историей не должен менять имя")
	}

	if s.UndoRename("missing") {
		t.Error("UndoRename несуществующей записи должен вернуть false")
	}
}

// TestNextCounter проверяет монотонность счётчика и его перенос через 1000.
func TestNextCounter(t *testing.T) {
	s := newTestStore()

	prev := -1
	for i := 0; i < 5; i++ {
		got := s.NextCounter()
		if got <= prev {
			t.Fatalf("счётчик не монотонен: %d после %d", got, prev)
		}
		prev = got
	}

	s.counter = 1000
	if got := s.NextCounter(); got != 0 {
		t.Errorf("после 999 счётчик должен перейти в 0, получили %d", got)
	}
}

// TestCountByStatus проверяет подсчёт записей по статусу.
func TestCountByStatus(t *testing.T) {
	s := newTestStore()
	s.Add(newRecord("a", "a.txt"), newRecord("b", "b.txt"))
	s.Update("a", func(rec *model.FileRecord) {
		rec.Status = model.StatusCompleted
	})

	if got := s.CountByStatus(model.StatusCompleted); got != 1 {
		t.Errorf("completed: хотели 1, получили %d", got)
	}
	if got := s.CountByStatus(model.StatusUploading); got != 1 {
		t.Errorf("uploading: хотели 1, получили %d", got)
	}
	if got := s.CountByStatus(model.StatusError); got != 0 {
		t.Errorf("error: хотели 0, получили %d", got)
	}
}
