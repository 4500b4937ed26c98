// remote.go — удалённый анализатор: имя предлагает внешний HTTP-сервис.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Remote — клиент внешнего сервиса анализа содержимого.
// Сервис принимает POST с телом файла и заголовком Content-Type
// и отвечает JSON вида {"suggested_name": "..."}.
type Remote struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewRemote создаёт клиент удалённого анализатора.
func NewRemote(url string, timeout time.Duration, logger *slog.Logger) *Remote {
	return &Remote{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger.With(slog.String("component", "analyzer_remote")),
	}
}

// Supports — удалённый сервис сам решает, что анализировать,
// поэтому клиент принимает любой content-type.
func (r *Remote) Supports(contentType string) bool {
	return true
}

// Analyze отправляет содержимое файла внешнему сервису и возвращает
// предложенное имя без расширения.
func (r *Remote) Analyze(ctx context.Context, content []byte, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("не удалось создать запрос к анализатору: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("запрос к анализатору не выполнен: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("анализатор вернул статус %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		SuggestedName string `json:"suggested_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("не удалось разобрать ответ анализатора: %w", err)
	}
	if payload.SuggestedName == "" {
		return "", fmt.Errorf("анализатор вернул пустое имя")
	}

	r.logger.Debug("Удалённый анализатор предложил имя",
		slog.String("suggested_name", payload.SuggestedName),
	)
	return payload.SuggestedName, nil
}
