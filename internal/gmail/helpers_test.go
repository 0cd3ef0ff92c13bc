package gmail

import (
	"encoding/base64"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/model"
)

func b64url(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func notification(id, sender, date, body string) model.RawMessage {
	return model.RawMessage{
		ID: id,
		Headers: []model.Header{
			{Name: "From", Value: sender},
			{Name: "Date", Value: date},
			{Name: "Subject", Value: "Notifikasi Transaksi"},
		},
		Payload: model.MessagePart{
			MimeType: "text/plain",
			Encoding: model.EncodingBase64URL,
			Data:     b64url(body),
		},
	}
}
