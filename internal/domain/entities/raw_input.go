package entities

import (
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// InputKind distinguishes uploaded media from pasted text.
type InputKind string

const (
	InputKindFile InputKind = "file"
	InputKindText InputKind = "text"
)

// DefaultTextInputName is used when pasted text comes without a name.
const DefaultTextInputName = "Text Input"

// RawInput is one user submission. It is consumed by a single pipeline run.
type RawInput struct {
	ID          string
	Kind        InputKind
	FileName    string
	File        io.Reader
	FileSize    int64
	ContentType string
	Text        string
	SubmittedAt time.Time
}

// NewFileInput creates a media file submission.
func NewFileInput(fileName string, r io.Reader, size int64, contentType string) *RawInput {
	return &RawInput{
		ID:          "file-" + uuid.NewString(),
		Kind:        InputKindFile,
		FileName:    fileName,
		File:        r,
		FileSize:    size,
		ContentType: contentType,
		SubmittedAt: time.Now().UTC(),
	}
}

// NewTextInput creates a pasted-text submission.
func NewTextInput(text, fileName string) *RawInput {
	return &RawInput{
		ID:          "text-" + uuid.NewString(),
		Kind:        InputKindText,
		FileName:    fileName,
		Text:        text,
		SubmittedAt: time.Now().UTC(),
	}
}

// IsFile reports whether the input carries a media file.
func (in *RawInput) IsFile() bool {
	return in != nil && in.Kind == InputKindFile && in.File != nil
}

// DisplayName returns the declared file name or the text-input placeholder.
func (in *RawInput) DisplayName() string {
	if in == nil || in.FileName == "" {
		return DefaultTextInputName
	}
	return in.FileName
}

// Validate checks that the input carries something to analyze.
func (in *RawInput) Validate() error {
	if in == nil {
		return ErrInputRequired
	}
	switch in.Kind {
	case InputKindFile:
		if in.File == nil {
			return ErrFileWithoutRef
		}
	case InputKindText:
		if strings.TrimSpace(in.Text) == "" {
			return ErrEmptyInput
		}
	default:
		return ErrUnknownKind
	}
	return nil
}
