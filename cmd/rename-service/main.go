// Точка входа Rename Service — сервиса переименования и конвертации файлов.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/bigkaa/renamebox/rename-service/internal/analyzer"
	"github.com/bigkaa/renamebox/rename-service/internal/api/handlers"
	"github.com/bigkaa/renamebox/rename-service/internal/config"
	"github.com/bigkaa/renamebox/rename-service/internal/convert"
	"github.com/bigkaa/renamebox/rename-service/internal/export"
	"github.com/bigkaa/renamebox/rename-service/internal/naming"
	"github.com/bigkaa/renamebox/rename-service/internal/notify"
	"github.com/bigkaa/renamebox/rename-service/internal/pipeline"
	"github.com/bigkaa/renamebox/rename-service/internal/server"
	"github.com/bigkaa/renamebox/rename-service/internal/service"
	"github.com/bigkaa/renamebox/rename-service/internal/storage/filestore"
	"github.com/bigkaa/renamebox/rename-service/internal/store"
)

func main() {
	// Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка конфигурации: %v\n", err)
		os.Exit(1)
	}

	// Настройка логгера
	logger := config.SetupLogger(cfg)
	logger.Info("Rename Service запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("data_dir", cfg.DataDir),
	)

	// --- Инициализация компонентов ---

	// 1. Файловое хранилище payload-ов
	files, err := filestore.New(cfg.DataDir)
	if err != nil {
		logger.Error("Ошибка инициализации FileStore", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. In-memory хранилище записей
	recordStore := store.New(logger)

	// 3. Лента уведомлений
	feed := notify.NewFeed(0, logger)

	// 4. Конфигурация именования и анализатор
	manager := naming.NewManager(naming.Settings{
		Mode:    naming.ModeTokenPattern,
		Pattern: naming.DefaultTemplate,
	})

	var contentAnalyzer naming.Analyzer
	if cfg.AnalyzerURL != "" {
		contentAnalyzer = analyzer.NewRemote(cfg.AnalyzerURL, cfg.AnalyzerTimeout, logger)
		logger.Info("Используется удалённый анализатор содержимого",
			slog.String("analyzer_url", cfg.AnalyzerURL),
		)
	} else {
		contentAnalyzer = analyzer.NewHeuristic(cfg.AnalyzerCacheSize, cfg.AnalyzerCacheTTL, logger)
		logger.Info("Используется встроенный эвристический анализатор")
	}

	resolver := naming.NewResolver(manager, contentAnalyzer, files, cfg.AnalyzerTimeout, feed, logger)

	// 5. Оркестратор и сервисы
	orch := pipeline.New(recordStore, files, resolver, feed, cfg.UploadTick, cfg.UploadStep, logger)
	convertSvc := convert.NewService(recordStore, files, feed, logger)
	exportSvc := export.NewService(recordStore, files, feed, cfg.ExportBatchSize, cfg.ExportBatchPause, logger)
	downloadSvc := service.NewDownloadService(recordStore, files, logger)

	// 6. Фоновые процессы
	ctx := context.Background()

	// 6.1 Janitor — уборка payload-файлов без живой записи
	janitor := service.NewJanitor(recordStore, files, cfg.JanitorInterval, logger)
	janitor.Start(ctx)

	// 6.2 topologymetrics — мониторинг удалённого анализатора,
	// только если он настроен
	var dephealthSvc *service.DephealthService
	if cfg.AnalyzerURL != "" {
		var dephealthErr error
		dephealthSvc, dephealthErr = service.NewDephealthService(
			resolveDephealthName(cfg.DephealthName, "rename-service"),
			cfg.DephealthGroup,
			cfg.AnalyzerURL,
			cfg.DephealthCheckInterval,
			logger,
		)
		if dephealthErr != nil {
			logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
				slog.String("error", dephealthErr.Error()),
			)
		} else {
			if startErr := dephealthSvc.Start(ctx); startErr != nil {
				logger.Warn("Ошибка запуска topologymetrics",
					slog.String("error", startErr.Error()),
				)
			} else {
				logger.Info("topologymetrics запущен",
					slog.String("analyzer_url", cfg.AnalyzerURL),
					slog.String("check_interval", cfg.DephealthCheckInterval.String()),
				)
			}
		}
	}

	// 7. Handlers
	recordsHandler := handlers.NewRecordsHandler(orch, recordStore, convertSvc, downloadSvc, cfg.MaxFileSize)
	namingHandler := handlers.NewNamingHandler(manager, orch, feed)
	exportHandler := handlers.NewExportHandler(exportSvc)
	notificationsHandler := handlers.NewNotificationsHandler(feed)
	systemHandler := handlers.NewSystemHandler(recordStore, files)
	healthHandler := handlers.NewHealthHandler(cfg.DataDir)

	// Единый API handler
	apiHandler := handlers.NewAPIHandler(
		recordsHandler,
		namingHandler,
		exportHandler,
		notificationsHandler,
		systemHandler,
		healthHandler,
	)

	// 8. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, apiHandler)

	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// --- Graceful shutdown фоновых процессов ---
	logger.Info("Остановка фоновых процессов...")

	janitor.Stop()
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("Rename Service остановлен")
}
