// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ImageSize names an output shape for image generation.
type ImageSize string

const (
	SizeSquare    ImageSize = "square"
	SizePortrait  ImageSize = "portrait"
	SizeLandscape ImageSize = "landscape"
)

// ErrInvalidSize is returned by ParseSize for an unknown name.
var ErrInvalidSize = errors.New("invalid image size")

// Sizes lists the supported sizes in display order.
var Sizes = []ImageSize{SizeSquare, SizePortrait, SizeLandscape}

// ParseSize accepts a size name or its pixel dimensions. Empty input is square.
func ParseSize(s string) (ImageSize, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "square", openai.CreateImageSize1024x1024:
		return SizeSquare, nil
	case "portrait", openai.CreateImageSize1024x1792:
		return SizePortrait, nil
	case "landscape", openai.CreateImageSize1792x1024:
		return SizeLandscape, nil
	}
	return "", fmt.Errorf("%w: %q (want square, portrait or landscape)", ErrInvalidSize, s)
}

// Dimensions returns the WIDTHxHEIGHT string sent to the image endpoint.
// Unknown values fall back to square.
func (s ImageSize) Dimensions() string {
	switch s {
	case SizePortrait:
		return openai.CreateImageSize1024x1792
	case SizeLandscape:
		return openai.CreateImageSize1792x1024
	default:
		return openai.CreateImageSize1024x1024
	}
}

func (s ImageSize) String() string {
	if s == "" {
		return string(SizeSquare)
	}
	return string(s)
}
