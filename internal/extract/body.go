package extract

import (
	"encoding/base64"
	"io"
	"log/slog"
	"mime/quotedprintable"
	"strings"
	"unicode/utf8"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/model"
)

var whitespaceReplacer = strings.NewReplacer("\u00a0", " ", "\t", " ")

// DecodeBody returns the text of a message. A single-part message is decoded
// as-is. For multipart messages the decoded text of every text/plain part is
// concatenated with the visible text of every text/html part, in tree order.
func DecodeBody(msg *model.RawMessage) string {
	if !msg.Payload.IsMultipart() {
		return decodePart(msg.Payload)
	}

	var sb strings.Builder
	collectText(msg.Payload.Parts, &sb)
	return sb.String()
}

func collectText(parts []model.MessagePart, sb *strings.Builder) {
	for _, part := range parts {
		if part.IsMultipart() {
			collectText(part.Parts, sb)
			continue
		}

		switch mediaType(part.MimeType) {
		case "text/plain":
			sb.WriteString(decodePart(part))
		case "text/html":
			sb.WriteString(VisibleText(decodePart(part)))
		}
	}
}

// mediaType strips parameters such as charset from a MIME type.
func mediaType(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

// decodePart undoes the transport encoding and replaces invalid UTF-8.
func decodePart(part model.MessagePart) string {
	raw, err := decodeTransport(part.Encoding, part.Data)
	if err != nil {
		slog.Debug("Failed to decode message part", "mime_type", part.MimeType, "encoding", part.Encoding, "error", err)
	}
	if utf8.Valid(raw) {
		return string(raw)
	}
	return strings.ToValidUTF8(string(raw), "\uFFFD")
}

// decodeTransport returns whatever could be decoded even when err is non-nil.
func decodeTransport(encoding, data string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case model.EncodingBase64URL:
		return decodeBase64(base64.URLEncoding, base64.RawURLEncoding, data)
	case model.EncodingBase64:
		return decodeBase64(base64.StdEncoding, base64.RawStdEncoding, data)
	case model.EncodingQuotedPrintable:
		out, err := io.ReadAll(quotedprintable.NewReader(strings.NewReader(data)))
		return out, err
	default:
		return []byte(data), nil
	}
}

func decodeBase64(padded, raw *base64.Encoding, data string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		if r == '\r' || r == '\n' || r == ' ' {
			return -1
		}
		return r
	}, data)

	if out, err := padded.DecodeString(clean); err == nil {
		return out, nil
	}

	// Gmail omits padding on some parts.
	trimmed := strings.TrimRight(clean, "=")
	out, err := raw.DecodeString(trimmed)
	if err != nil {
		// Keep the prefix that decoded cleanly.
		buf := make([]byte, raw.DecodedLen(len(trimmed)))
		n, _ := raw.Decode(buf, []byte(trimmed))
		return buf[:n], err
	}
	return out, nil
}

// NormalizeWhitespace turns non-breaking spaces and tabs into plain spaces.
func NormalizeWhitespace(text string) string {
	return whitespaceReplacer.Replace(text)
}
