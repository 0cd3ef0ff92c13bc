// Package model defines the core domain models used throughout the application.
package model

import (
	"strings"
	"time"
)

// Transport encodings understood by the body decoder.
const (
	EncodingBase64URL       = "base64url"
	EncodingBase64          = "base64"
	EncodingQuotedPrintable = "quoted-printable"
)

// Header is a single email header.
type Header struct {
	Name  string
	Value string
}

// MessagePart is one node of a MIME tree. Leaf parts carry Data encoded
// with Encoding; multipart nodes carry Parts.
type MessagePart struct {
	MimeType string
	Encoding string
	Data     string
	Parts    []MessagePart
}

// IsMultipart reports whether the part has child parts.
func (p MessagePart) IsMultipart() bool {
	return len(p.Parts) > 0
}

// RawMessage is an email payload as delivered by a message source.
type RawMessage struct {
	InternalDate time.Time // Provider receive time, used when the Date header is unusable
	ID           string
	ThreadID     string
	Headers      []Header
	Payload      MessagePart
}

// Header returns the value of the first header matching name, case-insensitively.
func (m *RawMessage) Header(name string) string {
	for _, h := range m.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}
