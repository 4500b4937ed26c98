// dephealth_name.go — определение имени вершины графа для topologymetrics.
//
// Имя берётся из DEPHEALTH_NAME; если переменная не задана — выводится
// из hostname пода (имя Deployment или StatefulSet без суффиксов).
package main

import (
	"os"
	"strings"
)

// resolveDephealthName возвращает имя вершины графа зависимостей:
// explicit из конфигурации, иначе имя владельца пода из hostname,
// иначе имя сервиса по умолчанию.
func resolveDephealthName(explicit, fallback string) string {
	if explicit != "" {
		return explicit
	}
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		return parseOwnerName(hostname)
	}
	return fallback
}

// parseOwnerName извлекает имя владельца пода из hostname.
// Deployment: <name>-<pod-template-hash>-<random> → <name>.
// StatefulSet: <name>-<ordinal> → <name>.
// Остальное возвращается как есть.
func parseOwnerName(hostname string) string {
	parts := strings.Split(hostname, "-")

	// StatefulSet: последний сегмент — порядковый номер
	if len(parts) >= 2 && isDigits(parts[len(parts)-1]) {
		return strings.Join(parts[:len(parts)-1], "-")
	}

	// Deployment: предпоследний сегмент — pod-template-hash (hex),
	// последний — случайный суффикс
	if len(parts) >= 3 {
		hash := parts[len(parts)-2]
		suffix := parts[len(parts)-1]
		if len(hash) >= 8 && isHex(hash) && len(suffix) == 5 {
			return strings.Join(parts[:len(parts)-2], "-")
		}
	}

	return hostname
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
