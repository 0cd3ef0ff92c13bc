// Package mailfile reads saved RFC 822 messages (.eml files) so that bank
// notifications can be processed without a Gmail connection.
package mailfile

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"net/textproto"
	"sort"
	"strings"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/model"
)

// maxPartSize bounds how much of a single body part is read.
const maxPartSize = 10 << 20

var wordDecoder = &mime.WordDecoder{}

// ParseMessage reads one RFC 822 message. Parts keep their transfer
// encoding; decoding is left to the extractor.
func ParseMessage(id string, r io.Reader) (model.RawMessage, error) {
	msg, err := mail.ReadMessage(r)
	if err != nil {
		return model.RawMessage{}, fmt.Errorf("failed to read message %s: %w", id, err)
	}

	payload, err := parsePart(textproto.MIMEHeader(msg.Header), msg.Body)
	if err != nil {
		return model.RawMessage{}, fmt.Errorf("failed to parse message %s: %w", id, err)
	}

	return model.RawMessage{
		ID:      id,
		Headers: convertHeaders(msg.Header),
		Payload: payload,
	}, nil
}

func parsePart(header textproto.MIMEHeader, body io.Reader) (model.MessagePart, error) {
	mediaType, params, err := mime.ParseMediaType(header.Get("Content-Type"))
	if err != nil {
		mediaType = "text/plain"
	}

	part := model.MessagePart{MimeType: mediaType}

	if strings.HasPrefix(mediaType, "multipart/") {
		boundary := params["boundary"]
		if boundary == "" {
			return part, fmt.Errorf("multipart message without boundary")
		}

		mr := multipart.NewReader(body, boundary)
		for {
			p, nextErr := mr.NextRawPart()
			if nextErr == io.EOF {
				break
			}
			if nextErr != nil {
				return part, fmt.Errorf("failed to read part: %w", nextErr)
			}

			child, childErr := parsePart(p.Header, p)
			_ = p.Close()
			if childErr != nil {
				return part, childErr
			}
			part.Parts = append(part.Parts, child)
		}
		return part, nil
	}

	data, err := io.ReadAll(io.LimitReader(body, maxPartSize))
	if err != nil {
		return part, fmt.Errorf("failed to read body: %w", err)
	}

	part.Data = string(data)
	part.Encoding = transferEncoding(header.Get("Content-Transfer-Encoding"))
	return part, nil
}

func transferEncoding(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "base64":
		return model.EncodingBase64
	case "quoted-printable":
		return model.EncodingQuotedPrintable
	default:
		return ""
	}
}

// convertHeaders flattens the header map in a stable order, decoding
// RFC 2047 encoded words.
func convertHeaders(h mail.Header) []model.Header {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	headers := make([]model.Header, 0, len(names))
	for _, name := range names {
		for _, value := range h[name] {
			decoded, err := wordDecoder.DecodeHeader(value)
			if err != nil {
				decoded = value
			}
			headers = append(headers, model.Header{Name: name, Value: decoded})
		}
	}
	return headers
}
