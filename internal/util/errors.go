package util

import "errors"

var (
	ErrNoExtractableText = errors.New("no extractable text found in PDF")
	ErrTranscriptMissing = errors.New("transcript source not found")
)
