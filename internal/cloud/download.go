// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/jeranaias/lumen/internal/util"
)

// DownloadImage fetches imageURL and saves it into dir as
// lumen-image-<unix-ms><ext>, with the extension sniffed from the content.
// No Authorization header is sent since image URLs are pre-signed and may
// point at a different host.
func (c *Client) DownloadImage(ctx context.Context, imageURL, dir string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetResponseBodyLimit(MaxImageSize).
		Get(imageURL)
	if err != nil {
		return "", transportError(ctx, err)
	}

	body := resp.Bytes()
	if !resp.IsSuccess() {
		return "", parseErrorResponse(resp.StatusCode(), body)
	}

	mime := mimetype.Detect(body)
	if !strings.HasPrefix(mime.String(), "image/") {
		return "", fmt.Errorf("%w: expected an image, got %s", ErrMalformedResponse, mime.String())
	}

	ext := mime.Extension()
	if ext == "" {
		ext = ".png"
	}

	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, fmt.Sprintf("lumen-image-%d%s", time.Now().UnixMilli(), ext))
	if err := util.AtomicWriteFile(path, body, 0644); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}

	c.log.Info().Str("path", path).Str("mime", mime.String()).Int("bytes", len(body)).Msg("image downloaded")
	return path, nil
}
