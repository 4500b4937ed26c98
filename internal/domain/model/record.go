// Пакет model — доменные модели Rename Service.
// FileRecord — запись о файле, проходящем конвейер переименования:
// загрузка → обработка → присвоение имени → (опциональная конвертация).
package model

import (
	"path/filepath"
	"strings"
	"time"
)

// RecordStatus — статус записи в конвейере.
type RecordStatus string

const (
	// StatusUploading — файл принимается, progress 0-100
	StatusUploading RecordStatus = "uploading"
	// StatusProcessing — выполняется присвоение имени или конвертация
	StatusProcessing RecordStatus = "processing"
	// StatusCompleted — обработка завершена, запись доступна для скачивания и экспорта
	StatusCompleted RecordStatus = "completed"
	// StatusError — обработка завершилась ошибкой (ErrorMessage заполнен)
	StatusError RecordStatus = "error"
)

// FileRecord — запись о файле. Единственный изменяемый экземпляр
// живёт внутри store.Store; наружу отдаются копии.
type FileRecord struct {
	// ID — уникальный идентификатор записи (UUID v4), неизменен
	ID string `json:"id"`

	// OriginalName — имя файла при загрузке, неизменно
	OriginalName string `json:"original_name"`

	// CurrentName — последнее присвоенное имя ("" = имя ещё не присвоено)
	CurrentName string `json:"current_name,omitempty"`

	// NameHistory — предыдущие значения CurrentName, старые в начале.
	// Растёт при rename, укорачивается на один элемент при undo.
	NameHistory []string `json:"name_history,omitempty"`

	// Status — текущий статус записи
	Status RecordStatus `json:"status"`

	// Progress — прогресс загрузки 0-100, имеет смысл только при uploading
	Progress int `json:"progress"`

	// ContentType — MIME-тип файла при загрузке
	ContentType string `json:"content_type"`

	// Size — размер исходного файла в байтах
	Size int64 `json:"size"`

	// ErrorMessage — описание ошибки, только при status = error
	ErrorMessage string `json:"error_message,omitempty"`

	// SourcePath — имя исходного файла на диске (относительно RB_DATA_DIR).
	// Не возвращается в API, используется только внутри сервиса.
	SourcePath string `json:"-"`

	// Checksum — SHA-256 исходного содержимого (ключ кэша анализатора)
	Checksum string `json:"checksum"`

	// ConvertedPath — имя конвертированного файла на диске ("" = конвертации не было)
	ConvertedPath string `json:"-"`

	// ConvertedType — MIME-тип конвертированного файла, заполняется вместе с ConvertedPath
	ConvertedType string `json:"converted_type,omitempty"`

	// ConvertedChecksum — SHA-256 конвертированного содержимого,
	// заполняется вместе с ConvertedPath
	ConvertedChecksum string `json:"-"`

	// ViaAnalyzer — имя получено от анализатора содержимого, а не по шаблону
	ViaAnalyzer bool `json:"via_analyzer"`

	// UploadedAt — дата и время приёма файла (UTC)
	UploadedAt time.Time `json:"uploaded_at"`
}

// DisplayName возвращает имя записи для скачивания и экспорта:
// CurrentName, либо OriginalName, если имя ещё не присваивалось.
func (r *FileRecord) DisplayName() string {
	if r.CurrentName != "" {
		return r.CurrentName
	}
	return r.OriginalName
}

// PayloadPath возвращает путь содержимого для скачивания и экспорта:
// конвертированный артефакт, если он есть, иначе исходный файл.
func (r *FileRecord) PayloadPath() string {
	if r.ConvertedPath != "" {
		return r.ConvertedPath
	}
	return r.SourcePath
}

// PayloadType возвращает MIME-тип содержимого для скачивания.
func (r *FileRecord) PayloadType() string {
	if r.ConvertedPath != "" && r.ConvertedType != "" {
		return r.ConvertedType
	}
	return r.ContentType
}

// PayloadChecksum возвращает SHA-256 отдаваемого содержимого:
// конвертированного артефакта, если он есть, иначе исходного файла.
func (r *FileRecord) PayloadChecksum() string {
	if r.ConvertedPath != "" && r.ConvertedChecksum != "" {
		return r.ConvertedChecksum
	}
	return r.Checksum
}

// Clone возвращает глубокую копию записи (NameHistory копируется).
func (r *FileRecord) Clone() *FileRecord {
	copied := *r
	if r.NameHistory != nil {
		copied.NameHistory = make([]string, len(r.NameHistory))
		copy(copied.NameHistory, r.NameHistory)
	}
	return &copied
}

// Ext возвращает расширение оригинального имени, включая точку ("" если нет).
func (r *FileRecord) Ext() string {
	return filepath.Ext(r.OriginalName)
}

// BaseName возвращает оригинальное имя без последнего расширения.
func (r *FileRecord) BaseName() string {
	return strings.TrimSuffix(r.OriginalName, filepath.Ext(r.OriginalName))
}
