// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/jeranaias/lumen/internal/model"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports conversations to a self-contained HTML page.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts a conversation to HTML format.
func (e *HTMLExporter) Export(doc *Document) ([]byte, error) {
	if err := doc.validate(); err != nil {
		return nil, err
	}

	theme := "dark"
	if e.options.Theme == "light" {
		theme = "light"
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", html.EscapeString(doc.Title)))
	sb.WriteString(htmlCSS)
	sb.WriteString("</head>\n")
	sb.WriteString(fmt.Sprintf("<body class=\"%s-theme\">\n<div class=\"container\">\n", theme))

	// Header
	sb.WriteString("<header class=\"header\">\n")
	sb.WriteString(fmt.Sprintf("    <h1>%s</h1>\n", html.EscapeString(doc.Title)))
	if e.options.IncludeMetadata {
		sb.WriteString("    <div class=\"metadata\">\n")
		if doc.Model != "" {
			sb.WriteString(fmt.Sprintf("        <span class=\"meta-item\">Model: %s</span>\n", html.EscapeString(doc.Model)))
		}
		sb.WriteString(fmt.Sprintf("        <span class=\"meta-item\">Started: %s</span>\n", formatTimestamp(doc.CreatedAt)))
		sb.WriteString(fmt.Sprintf("        <span class=\"meta-item\">Messages: %d</span>\n", len(doc.Messages)))
		sb.WriteString("    </div>\n")
	}
	sb.WriteString("</header>\n")

	// Messages
	sb.WriteString("<main class=\"conversation\">\n")
	for _, msg := range doc.Messages {
		sb.WriteString(e.formatMessage(msg))
	}
	sb.WriteString("</main>\n")

	sb.WriteString(fmt.Sprintf("<footer class=\"footer\">Exported from lumen on %s</footer>\n",
		time.Now().Format("January 2, 2006 at 3:04 PM")))
	sb.WriteString("</div>\n</body>\n</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

func (e *HTMLExporter) formatMessage(msg model.Message) string {
	class := "message " + html.EscapeString(string(msg.Role))
	if msg.Failed {
		class += " failed"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("    <div class=\"%s\">\n", class))
	sb.WriteString("        <div class=\"message-header\">")
	sb.WriteString(fmt.Sprintf("<span class=\"role\">%s</span>", html.EscapeString(roleLabel(msg.Role))))
	if e.options.IncludeTimestamps {
		sb.WriteString(fmt.Sprintf("<span class=\"timestamp\">%s</span>", formatShortTimestamp(msg.Timestamp)))
	}
	sb.WriteString("</div>\n")

	content := html.EscapeString(strings.TrimSpace(msg.Content))
	content = strings.ReplaceAll(content, "\n", "<br>\n")
	sb.WriteString(fmt.Sprintf("        <div class=\"content\">%s</div>\n", content))

	if msg.HasImage() && safeImageURL(msg.ImageURL) {
		sb.WriteString(fmt.Sprintf("        <img class=\"generated\" src=\"%s\" alt=\"generated image\">\n",
			html.EscapeString(msg.ImageURL)))
	}
	sb.WriteString("    </div>\n")
	return sb.String()
}

// safeImageURL rejects javascript: and other non-http schemes.
func safeImageURL(u string) bool {
	lower := strings.ToLower(strings.TrimSpace(u))
	return strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "data:image/")
}

// =============================================================================
// EMBEDDED CSS
// =============================================================================

const htmlCSS = `    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }

        .dark-theme {
            --bg-primary: #1a1b26;
            --bg-secondary: #24283b;
            --text-primary: #c0caf5;
            --text-muted: #565f89;
            --border-color: #414868;
            --accent-blue: #7aa2f7;
            --accent-green: #9ece6a;
            --accent-red: #f7768e;
        }

        .light-theme {
            --bg-primary: #ffffff;
            --bg-secondary: #f7f8fa;
            --text-primary: #24292e;
            --text-muted: #6a737d;
            --border-color: #e1e4e8;
            --accent-blue: #0366d6;
            --accent-green: #22863a;
            --accent-red: #d73a49;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            line-height: 1.6;
            color: var(--text-primary);
            background: var(--bg-primary);
            padding: 20px;
        }

        .container { max-width: 900px; margin: 0 auto; background: var(--bg-secondary); border-radius: 12px; }
        .header { padding: 32px; border-bottom: 2px solid var(--border-color); }
        .header h1 { font-size: 28px; margin-bottom: 12px; }
        .metadata { display: flex; flex-wrap: wrap; gap: 16px; font-size: 14px; color: var(--text-muted); }
        .conversation { padding: 24px 32px; }
        .message { padding: 16px; margin-bottom: 16px; border-left: 4px solid var(--border-color); }
        .message.user { border-left-color: var(--accent-blue); }
        .message.assistant { border-left-color: var(--accent-green); }
        .message.failed { border-left-color: var(--accent-red); }
        .message-header { display: flex; justify-content: space-between; margin-bottom: 8px; font-weight: 600; }
        .timestamp { font-weight: 400; font-size: 12px; color: var(--text-muted); }
        img.generated { max-width: 100%; margin-top: 12px; border-radius: 8px; }
        .footer { padding: 16px 32px; font-size: 12px; color: var(--text-muted); border-top: 1px solid var(--border-color); }

        @media print {
            .message { page-break-inside: avoid; }
        }
    </style>
`
