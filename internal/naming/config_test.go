package naming

import "testing"

// TestManagerSetAndCurrent проверяет смену активной конфигурации.
func TestManagerSetAndCurrent(t *testing.T) {
	m := NewManager(Settings{Mode: ModeTokenPattern, Pattern: DefaultTemplate})

	if _, ok := m.Previous(); ok {
		t.Error("у новой конфигурации не должно быть previous")
	}

	m.Set(Settings{Mode: ModeContentAnalysis})

	cur := m.Current()
	if cur.Mode != ModeContentAnalysis {
		t.Errorf("Current.Mode: хотели content_analysis, получили %s", cur.Mode)
	}

	prev, ok := m.Previous()
	if !ok {
		t.Fatal("после Set должен появиться previous")
	}
	if prev.Mode != ModeTokenPattern || prev.Pattern != DefaultTemplate {
		t.Errorf("previous заполнен неверно: %+v", prev)
	}
}

// TestManagerUndo проверяет одноуровневый откат конфигурации.
func TestManagerUndo(t *testing.T) {
	m := NewManager(Settings{Mode: ModeTokenPattern, Pattern: "{original}"})
	m.Set(Settings{Mode: ModeContentAnalysis})

	restored, ok := m.Undo()
	if !ok {
		t.Fatal("Undo после Set должен выполниться")
	}
	if restored.Mode != ModeTokenPattern || restored.Pattern != "{original}" {
		t.Errorf("восстановлена не та конфигурация: %+v", restored)
	}
	if m.Current().Mode != ModeTokenPattern {
		t.Errorf("Current после Undo: хотели token_pattern, получили %s", m.Current().Mode)
	}

	// история одноуровневая: повторный Undo — no-op
	if _, ok := m.Undo(); ok {
		t.Error("повторный Undo без Set должен вернуть false")
	}
	if m.Current().Mode != ModeTokenPattern {
		t.Error("no-op Undo не должен менять конфигурацию")
	}
}

// TestParseMode проверяет разбор режима именования.
func TestParseMode(t *testing.T) {
	for _, valid := range []string{"content_analysis", "token_pattern"} {
		if _, err := ParseMode(valid); err != nil {
			t.Errorf("ParseMode(%q): неожиданная ошибка: %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "ai", "ContentAnalysis"} {
		if _, err := ParseMode(invalid); err == nil {
			t.Errorf("ParseMode(%q): ожидалась ошибка", invalid)
		}
	}
}
