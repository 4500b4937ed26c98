// Пакет config — загрузка и валидация конфигурации Rename Service
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации Rename Service.
type Config struct {
	// Порт HTTP-сервера
	Port int
	// Путь к директории хранения payload-файлов (исходных и конвертированных)
	DataDir string
	// Максимальный размер загружаемого файла в байтах
	MaxFileSize int64

	// Интервал тика прогресса на фазе uploading
	UploadTick time.Duration
	// Приращение прогресса за один тик (в процентах)
	UploadStep int

	// URL внешнего анализатора содержимого (опционально;
	// при пустом значении используется встроенный эвристический анализатор)
	AnalyzerURL string
	// Таймаут обращения к анализатору, после которого выполняется
	// откат к шаблонному именованию
	AnalyzerTimeout time.Duration
	// Максимальное количество записей в LRU-кэше результатов анализа
	AnalyzerCacheSize int
	// TTL записи в кэше результатов анализа
	AnalyzerCacheTTL time.Duration

	// Размер порции файлов при сборке ZIP-архива
	ExportBatchSize int
	// Пауза между порциями при сборке ZIP-архива (кооперативная уступка)
	ExportBatchPause time.Duration

	// Интервал фоновой очистки payload-файлов без живой записи
	JanitorInterval time.Duration

	// Интервал проверки зависимостей topologymetrics
	DephealthCheckInterval time.Duration
	// Имя группы в метриках topologymetrics
	DephealthGroup string
	// Имя владельца пода для метки name в topologymetrics
	DephealthName string

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// RB_PORT — порт HTTP-сервера (по умолчанию 8020)
	cfg.Port, err = getEnvInt("RB_PORT", 8020)
	if err != nil {
		return nil, fmt.Errorf("RB_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("RB_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// RB_DATA_DIR — обязательный
	cfg.DataDir, err = getEnvRequired("RB_DATA_DIR")
	if err != nil {
		return nil, err
	}

	// RB_MAX_FILE_SIZE — максимальный размер файла (по умолчанию 256 MiB)
	cfg.MaxFileSize, err = getEnvInt64("RB_MAX_FILE_SIZE", 268435456)
	if err != nil {
		return nil, fmt.Errorf("RB_MAX_FILE_SIZE: %w", err)
	}
	if cfg.MaxFileSize <= 0 {
		return nil, fmt.Errorf("RB_MAX_FILE_SIZE: значение должно быть положительным")
	}

	// RB_UPLOAD_TICK — интервал тика прогресса (по умолчанию 200ms)
	cfg.UploadTick, err = getEnvDuration("RB_UPLOAD_TICK", 200*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("RB_UPLOAD_TICK: %w", err)
	}

	// RB_UPLOAD_STEP — приращение прогресса за тик (по умолчанию 10)
	cfg.UploadStep, err = getEnvInt("RB_UPLOAD_STEP", 10)
	if err != nil {
		return nil, fmt.Errorf("RB_UPLOAD_STEP: %w", err)
	}
	if cfg.UploadStep < 1 || cfg.UploadStep > 100 {
		return nil, fmt.Errorf("RB_UPLOAD_STEP: значение %d вне допустимого диапазона 1-100", cfg.UploadStep)
	}

	// RB_ANALYZER_URL — URL внешнего анализатора (опционально)
	cfg.AnalyzerURL = getEnvDefault("RB_ANALYZER_URL", "")

	// RB_ANALYZER_TIMEOUT — таймаут анализатора (по умолчанию 10s)
	cfg.AnalyzerTimeout, err = getEnvDuration("RB_ANALYZER_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("RB_ANALYZER_TIMEOUT: %w", err)
	}

	// RB_ANALYZER_CACHE_SIZE — размер LRU-кэша анализа (по умолчанию 512)
	cfg.AnalyzerCacheSize, err = getEnvInt("RB_ANALYZER_CACHE_SIZE", 512)
	if err != nil {
		return nil, fmt.Errorf("RB_ANALYZER_CACHE_SIZE: %w", err)
	}
	if cfg.AnalyzerCacheSize <= 0 {
		return nil, fmt.Errorf("RB_ANALYZER_CACHE_SIZE: значение должно быть положительным")
	}

	// RB_ANALYZER_CACHE_TTL — TTL кэша анализа (по умолчанию 1h)
	cfg.AnalyzerCacheTTL, err = getEnvDuration("RB_ANALYZER_CACHE_TTL", time.Hour)
	if err != nil {
		return nil, fmt.Errorf("RB_ANALYZER_CACHE_TTL: %w", err)
	}

	// RB_EXPORT_BATCH_SIZE — размер порции ZIP-архива (по умолчанию 5)
	cfg.ExportBatchSize, err = getEnvInt("RB_EXPORT_BATCH_SIZE", 5)
	if err != nil {
		return nil, fmt.Errorf("RB_EXPORT_BATCH_SIZE: %w", err)
	}
	if cfg.ExportBatchSize <= 0 {
		return nil, fmt.Errorf("RB_EXPORT_BATCH_SIZE: значение должно быть положительным")
	}

	// RB_EXPORT_BATCH_PAUSE — пауза между порциями (по умолчанию 100ms)
	cfg.ExportBatchPause, err = getEnvDuration("RB_EXPORT_BATCH_PAUSE", 100*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("RB_EXPORT_BATCH_PAUSE: %w", err)
	}

	// RB_JANITOR_INTERVAL — интервал фоновой очистки (по умолчанию 1h)
	cfg.JanitorInterval, err = getEnvDuration("RB_JANITOR_INTERVAL", time.Hour)
	if err != nil {
		return nil, fmt.Errorf("RB_JANITOR_INTERVAL: %w", err)
	}

	// RB_DEPHEALTH_CHECK_INTERVAL — интервал проверки зависимостей (по умолчанию 15s)
	cfg.DephealthCheckInterval, err = getEnvDuration("RB_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("RB_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// RB_DEPHEALTH_GROUP — имя группы в метриках topologymetrics (по умолчанию "rename-service")
	cfg.DephealthGroup = getEnvDefault("RB_DEPHEALTH_GROUP", "rename-service")

	// DEPHEALTH_NAME — имя владельца пода для метки name в topologymetrics
	cfg.DephealthName = getEnvDefault("DEPHEALTH_NAME", "")

	// RB_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("RB_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("RB_SHUTDOWN_TIMEOUT: %w", err)
	}

	// RB_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("RB_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("RB_LOG_LEVEL: %w", err)
	}

	// RB_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("RB_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("RB_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	return cfg, nil
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvInt64 возвращает int64 значение переменной окружения или значение по умолчанию.
func getEnvInt64(key string, defaultVal int64) (int64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 200ms, 30s, 1h)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
