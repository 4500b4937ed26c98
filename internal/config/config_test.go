package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

// clearEnv сбрасывает все переменные окружения сервиса,
// чтобы тесты не зависели от окружения машины.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"RB_PORT", "RB_DATA_DIR", "RB_MAX_FILE_SIZE",
		"RB_UPLOAD_TICK", "RB_UPLOAD_STEP",
		"RB_ANALYZER_URL", "RB_ANALYZER_TIMEOUT",
		"RB_ANALYZER_CACHE_SIZE", "RB_ANALYZER_CACHE_TTL",
		"RB_EXPORT_BATCH_SIZE", "RB_EXPORT_BATCH_PAUSE",
		"RB_JANITOR_INTERVAL",
		"RB_DEPHEALTH_CHECK_INTERVAL", "RB_DEPHEALTH_GROUP", "DEPHEALTH_NAME",
		"RB_SHUTDOWN_TIMEOUT", "RB_LOG_LEVEL", "RB_LOG_FORMAT",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}

// TestLoadDefaults проверяет значения по умолчанию.
func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("RB_DATA_DIR", "/tmp/rename-data")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if cfg.Port != 8020 {
		t.Errorf("Port: хотели 8020, получили %d", cfg.Port)
	}
	if cfg.DataDir != "/tmp/rename-data" {
		t.Errorf("DataDir: получили %s", cfg.DataDir)
	}
	if cfg.MaxFileSize != 268435456 {
		t.Errorf("MaxFileSize: хотели 268435456, получили %d", cfg.MaxFileSize)
	}
	if cfg.UploadTick != 200*time.Millisecond {
		t.Errorf("UploadTick: получили %s", cfg.UploadTick)
	}
	if cfg.UploadStep != 10 {
		t.Errorf("UploadStep: получили %d", cfg.UploadStep)
	}
	if cfg.AnalyzerURL != "" {
		t.Errorf("AnalyzerURL: получили %q", cfg.AnalyzerURL)
	}
	if cfg.AnalyzerTimeout != 10*time.Second {
		t.Errorf("AnalyzerTimeout: получили %s", cfg.AnalyzerTimeout)
	}
	if cfg.AnalyzerCacheSize != 512 {
		t.Errorf("AnalyzerCacheSize: получили %d", cfg.AnalyzerCacheSize)
	}
	if cfg.ExportBatchSize != 5 {
		t.Errorf("ExportBatchSize: получили %d", cfg.ExportBatchSize)
	}
	if cfg.JanitorInterval != time.Hour {
		t.Errorf("JanitorInterval: получили %s", cfg.JanitorInterval)
	}
	if cfg.DephealthGroup != "rename-service" {
		t.Errorf("DephealthGroup: получили %s", cfg.DephealthGroup)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout: получили %s", cfg.ShutdownTimeout)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel: получили %s", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat: получили %s", cfg.LogFormat)
	}
}

// TestLoadOverrides проверяет чтение значений из окружения.
func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("RB_DATA_DIR", "/data")
	t.Setenv("RB_PORT", "9000")
	t.Setenv("RB_MAX_FILE_SIZE", "1048576")
	t.Setenv("RB_UPLOAD_TICK", "50ms")
	t.Setenv("RB_UPLOAD_STEP", "25")
	t.Setenv("RB_ANALYZER_URL", "http://analyzer:8080/analyze")
	t.Setenv("RB_ANALYZER_TIMEOUT", "3s")
	t.Setenv("RB_EXPORT_BATCH_SIZE", "10")
	t.Setenv("RB_LOG_LEVEL", "debug")
	t.Setenv("RB_LOG_FORMAT", "text")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if cfg.Port != 9000 {
		t.Errorf("Port: получили %d", cfg.Port)
	}
	if cfg.MaxFileSize != 1048576 {
		t.Errorf("MaxFileSize: получили %d", cfg.MaxFileSize)
	}
	if cfg.UploadTick != 50*time.Millisecond {
		t.Errorf("UploadTick: получили %s", cfg.UploadTick)
	}
	if cfg.UploadStep != 25 {
		t.Errorf("UploadStep: получили %d", cfg.UploadStep)
	}
	if cfg.AnalyzerURL != "http://analyzer:8080/analyze" {
		t.Errorf("AnalyzerURL: получили %s", cfg.AnalyzerURL)
	}
	if cfg.AnalyzerTimeout != 3*time.Second {
		t.Errorf("AnalyzerTimeout: получили %s", cfg.AnalyzerTimeout)
	}
	if cfg.ExportBatchSize != 10 {
		t.Errorf("ExportBatchSize: получили %d", cfg.ExportBatchSize)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel: получили %s", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat: получили %s", cfg.LogFormat)
	}
}

// TestLoadMissingDataDir проверяет обязательность RB_DATA_DIR.
func TestLoadMissingDataDir(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	if err == nil {
		t.Fatal("ожидали ошибку при отсутствии RB_DATA_DIR")
	}
	if !strings.Contains(err.Error(), "RB_DATA_DIR") {
		t.Errorf("ошибка должна упоминать RB_DATA_DIR: %v", err)
	}
}

// TestLoadInvalidValues проверяет валидацию значений.
func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"порт не число", "RB_PORT", "abc"},
		{"порт вне диапазона", "RB_PORT", "70000"},
		{"отрицательный размер файла", "RB_MAX_FILE_SIZE", "-1"},
		{"некорректная длительность", "RB_UPLOAD_TICK", "fast"},
		{"шаг вне диапазона", "RB_UPLOAD_STEP", "0"},
		{"нулевой размер кэша", "RB_ANALYZER_CACHE_SIZE", "0"},
		{"нулевой размер порции", "RB_EXPORT_BATCH_SIZE", "0"},
		{"неизвестный уровень логов", "RB_LOG_LEVEL", "verbose"},
		{"неизвестный формат логов", "RB_LOG_FORMAT", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("RB_DATA_DIR", "/data")
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("%s=%s: ожидали ошибку", tt.key, tt.value)
			}
		})
	}
}
