// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/lumen/internal/model"
	"github.com/jeranaias/lumen/internal/util"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter defines the interface for conversation exporters.
type Exporter interface {
	// Export converts a conversation to the target format and returns the content.
	Export(doc *Document) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g., ".md", ".html").
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string
}

var (
	// ErrEmptyConversation is returned when there is nothing to export.
	ErrEmptyConversation = errors.New("conversation has no messages")

	// ErrUnsupportedFormat is returned for an unknown format name.
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// =============================================================================
// DOCUMENT
// =============================================================================

// Document is a conversation prepared for export.
type Document struct {
	Title     string          `json:"title"`
	Model     string          `json:"model,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	Messages  []model.Message `json:"messages"`
}

// NewDocument builds a document. An empty title is derived from the first
// user message.
func NewDocument(title, modelName string, msgs []model.Message) *Document {
	doc := &Document{
		Title:     title,
		Model:     modelName,
		CreatedAt: time.Now(),
		Messages:  msgs,
	}
	if len(msgs) > 0 && !msgs[0].Timestamp.IsZero() {
		doc.CreatedAt = msgs[0].Timestamp
	}
	if doc.Title == "" {
		doc.Title = "lumen conversation"
		for _, m := range msgs {
			if m.Role == model.RoleUser && strings.TrimSpace(m.Content) != "" {
				doc.Title = util.Truncate(util.SingleLine(m.Content), 50)
				break
			}
		}
	}
	return doc
}

func (d *Document) validate() error {
	if d == nil {
		return fmt.Errorf("conversation is nil")
	}
	if len(d.Messages) == 0 {
		return ErrEmptyConversation
	}
	return nil
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// IncludeMetadata includes a metadata header (title, model, dates).
	IncludeMetadata bool

	// IncludeTimestamps includes per-message timestamps.
	IncludeTimestamps bool

	// Theme for HTML export ("light" or "dark").
	Theme string
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		IncludeMetadata:   true,
		IncludeTimestamps: true,
		Theme:             "dark",
	}
}

// =============================================================================
// FORMAT SELECTION
// =============================================================================

// ForFormat returns the exporter for a format name or file extension.
func ForFormat(format string, opts *Options) (Exporter, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(format)), ".") {
	case "markdown", "md":
		return NewMarkdownExporter(opts), nil
	case "json":
		return NewJSONExporter(opts), nil
	case "html", "htm":
		return NewHTMLExporter(opts), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// WriteFile exports doc to path and returns the written path. The format
// follows the file extension. An empty path or an existing directory gets a
// generated Markdown file name.
func WriteFile(doc *Document, path string, opts *Options) (string, error) {
	if err := doc.validate(); err != nil {
		return "", err
	}

	if path == "" {
		path = "."
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, generatedName(doc, ".md"))
	}

	ext := filepath.Ext(path)
	if ext == "" {
		ext = ".md"
		path += ext
	}

	exporter, err := ForFormat(ext, opts)
	if err != nil {
		return "", err
	}

	content, err := exporter.Export(doc)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	if err := util.AtomicWriteFileWithDir(path, content, 0644, 0755); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return path, nil
}

func generatedName(doc *Document, ext string) string {
	return fmt.Sprintf("conversation_%s_%s%s",
		sanitizeFilename(doc.Title),
		time.Now().Format("20060102_150405"),
		ext,
	)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// sanitizeFilename removes or replaces characters that are invalid in filenames.
func sanitizeFilename(s string) string {
	runes := []rune(s)
	if len(runes) > 50 {
		runes = runes[:50]
	}

	result := make([]rune, 0, len(runes))
	for _, r := range runes {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			result = append(result, '-')
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			result = append(result, '_')
		case r < 32 || r == 127:
			result = append(result, '-')
		default:
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return "conversation"
	}
	return string(result)
}

// roleLabel returns the display label for a message role.
func roleLabel(role model.Role) string {
	switch role {
	case model.RoleUser, model.RoleAssistant, model.RoleSystem:
		return role.DisplayName()
	case "":
		return "Unknown"
	default:
		runes := []rune(string(role))
		return strings.ToUpper(string(runes[0])) + string(runes[1:])
	}
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// formatShortTimestamp formats a timestamp for inline display.
func formatShortTimestamp(t time.Time) string {
	return t.Format("15:04:05")
}
