// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/lumen/internal/model"
)

func sampleDoc() *Document {
	return NewDocument("", "gpt-4o", []model.Message{
		model.NewUserMessage("Draw a red cube"),
		model.NewUserMessage("Generate image: a red cube"),
		model.NewImageMessage("Here is the image generated based on your prompt:", "https://img.example/cube.png"),
		model.NewFailureMessage("I'm sorry, there was an error processing your request. Incorrect API key provided"),
	})
}

func TestNewDocument_TitleFromFirstUserMessage(t *testing.T) {
	doc := sampleDoc()
	assert.Equal(t, "Draw a red cube", doc.Title)
	assert.Equal(t, "gpt-4o", doc.Model)
	assert.False(t, doc.CreatedAt.IsZero())

	empty := NewDocument("", "", nil)
	assert.Equal(t, "lumen conversation", empty.Title)
}

func TestExport_EmptyConversation(t *testing.T) {
	doc := NewDocument("t", "", nil)
	for _, e := range []Exporter{NewMarkdownExporter(nil), NewJSONExporter(nil), NewHTMLExporter(nil)} {
		_, err := e.Export(doc)
		assert.ErrorIs(t, err, ErrEmptyConversation)
	}
}

func TestMarkdownExporter(t *testing.T) {
	out, err := NewMarkdownExporter(nil).Export(sampleDoc())
	require.NoError(t, err)
	s := string(out)

	assert.True(t, strings.HasPrefix(s, "---\n"))
	assert.Contains(t, s, "model: gpt-4o")
	assert.Contains(t, s, "### You")
	assert.Contains(t, s, "### Assistant")
	assert.Contains(t, s, "![generated image](https://img.example/cube.png)")
	assert.Contains(t, s, "> I'm sorry, there was an error processing your request.")
}

func TestMarkdownExporter_NoMetadata(t *testing.T) {
	opts := &Options{}
	out, err := NewMarkdownExporter(opts).Export(sampleDoc())
	require.NoError(t, err)
	s := string(out)
	assert.False(t, strings.HasPrefix(s, "---\n"))
	assert.NotContains(t, s, "<sub>")
}

func TestMarkdownExporter_YAMLInjection(t *testing.T) {
	doc := NewDocument("evil\nmalicious: injected", "", []model.Message{model.NewUserMessage("hi")})
	out, err := NewMarkdownExporter(nil).Export(doc)
	require.NoError(t, err)

	frontmatter := strings.SplitN(string(out), "---\n", 3)[1]
	assert.NotContains(t, frontmatter, "\nmalicious: injected")
	assert.Contains(t, frontmatter, `title: "evil\nmalicious: injected"`)
}

func TestHTMLExporter_EscapesContent(t *testing.T) {
	doc := NewDocument("<script>alert(1)</script>", "", []model.Message{
		model.NewUserMessage("<img src=x onerror=alert(1)>"),
		model.NewImageMessage("caption", `https://img.example/a.png"><script>`),
		model.NewImageMessage("caption", "javascript:alert(1)"),
	})
	out, err := NewHTMLExporter(nil).Export(doc)
	require.NoError(t, err)
	s := string(out)

	assert.NotContains(t, s, "<script>alert(1)</script>")
	assert.NotContains(t, s, "<img src=x")
	assert.Contains(t, s, "&lt;img src=x onerror=alert(1)&gt;")
	assert.Contains(t, s, `src="https://img.example/a.png&#34;&gt;&lt;script&gt;"`)
	assert.NotContains(t, s, "javascript:alert")
}

func TestHTMLExporter_ThemeAndClasses(t *testing.T) {
	out, err := NewHTMLExporter(&Options{Theme: "light"}).Export(sampleDoc())
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, `<body class="light-theme">`)
	assert.Contains(t, s, `class="message assistant failed"`)
	assert.Contains(t, s, `<img class="generated" src="https://img.example/cube.png"`)
}

func TestJSONExporter(t *testing.T) {
	doc := sampleDoc()
	out, err := NewJSONExporter(nil).Export(doc)
	require.NoError(t, err)

	var back Document
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, doc.Title, back.Title)
	require.Len(t, back.Messages, 4)
	assert.Equal(t, "https://img.example/cube.png", back.Messages[2].ImageURL)
	assert.True(t, back.Messages[3].Failed)
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		in  string
		ext string
	}{
		{"md", ".md"},
		{"markdown", ".md"},
		{".JSON", ".json"},
		{"html", ".html"},
		{".htm", ".html"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			e, err := ForFormat(tt.in, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.ext, e.FileExtension())
		})
	}

	_, err := ForFormat("pdf", nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	doc := sampleDoc()

	t.Run("explicit json path", func(t *testing.T) {
		path, err := WriteFile(doc, filepath.Join(dir, "out", "chat.json"), nil)
		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, json.Valid(data))
	})

	t.Run("directory gets generated markdown name", func(t *testing.T) {
		path, err := WriteFile(doc, dir, nil)
		require.NoError(t, err)
		assert.Equal(t, dir, filepath.Dir(path))
		assert.True(t, strings.HasPrefix(filepath.Base(path), "conversation_Draw_a_red_cube_"))
		assert.Equal(t, ".md", filepath.Ext(path))
	})

	t.Run("missing extension defaults to markdown", func(t *testing.T) {
		path, err := WriteFile(doc, filepath.Join(dir, "notes"), nil)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "notes.md"), path)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := WriteFile(doc, filepath.Join(dir, "chat.pdf"), nil)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a-b-c", sanitizeFilename("a/b:c"))
	assert.Equal(t, "hello_world", sanitizeFilename("hello world"))
	assert.Equal(t, "conversation", sanitizeFilename(""))
	assert.Len(t, []rune(sanitizeFilename(strings.Repeat("x", 80))), 50)
}
