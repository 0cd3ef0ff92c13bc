package mailfile

import (
	"strings"
	"testing"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/extract"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const plainEML = "From: BCA <bca@bca.co.id>\r\n" +
	"To: me@example.com\r\n" +
	"Subject: Notifikasi Transaksi\r\n" +
	"Date: Mon, 01 Sep 2025 10:00:00 +0700\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Rp 150.000 pembayaran berhasil\r\n"

const multipartEML = "From: noreply.livin@bankmandiri.co.id\r\n" +
	"Subject: =?UTF-8?B?RGFuYSBNYXN1aw==?=\r\n" +
	"Date: Tue, 02 Sep 2025 08:30:00 +0700\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/mixed; boundary=\"outer\"\r\n" +
	"\r\n" +
	"--outer\r\n" +
	"Content-Type: multipart/alternative; boundary=\"inner\"\r\n" +
	"\r\n" +
	"--inner\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"Content-Transfer-Encoding: quoted-printable\r\n" +
	"\r\n" +
	"Transfer masuk IDR 2,500,000.00 =\r\n" +
	"berhasil\r\n" +
	"--inner\r\n" +
	"Content-Type: text/html; charset=utf-8\r\n" +
	"Content-Transfer-Encoding: base64\r\n" +
	"\r\n" +
	"PHA+SGFsbyBOYXNhYmFoPC9wPg==\r\n" +
	"--inner--\r\n" +
	"--outer\r\n" +
	"Content-Type: application/pdf\r\n" +
	"\r\n" +
	"%PDF-1.4\r\n" +
	"--outer--\r\n"

func TestParseMessage_Plain(t *testing.T) {
	msg, err := ParseMessage("plain", strings.NewReader(plainEML))
	require.NoError(t, err)

	assert.Equal(t, "plain", msg.ID)
	assert.Equal(t, "BCA <bca@bca.co.id>", msg.Header("From"))
	assert.Equal(t, "Notifikasi Transaksi", msg.Header("subject"))
	assert.Equal(t, "text/plain", msg.Payload.MimeType)
	assert.False(t, msg.Payload.IsMultipart())
	assert.Empty(t, msg.Payload.Encoding)
	assert.Contains(t, msg.Payload.Data, "Rp 150.000")
}

func TestParseMessage_NestedMultipart(t *testing.T) {
	msg, err := ParseMessage("multi", strings.NewReader(multipartEML))
	require.NoError(t, err)

	assert.Equal(t, "Dana Masuk", msg.Header("Subject"))
	require.Len(t, msg.Payload.Parts, 2)

	alt := msg.Payload.Parts[0]
	assert.Equal(t, "multipart/alternative", alt.MimeType)
	require.Len(t, alt.Parts, 2)
	assert.Equal(t, model.EncodingQuotedPrintable, alt.Parts[0].Encoding)
	assert.Equal(t, model.EncodingBase64, alt.Parts[1].Encoding)
	assert.Equal(t, "application/pdf", msg.Payload.Parts[1].MimeType)

	body := extract.DecodeBody(&msg)
	assert.Contains(t, body, "IDR 2,500,000.00 berhasil")
	assert.Contains(t, body, "Halo Nasabah")
	assert.NotContains(t, body, "%PDF")
}

func TestParseMessage_ExtractsTransaction(t *testing.T) {
	msg, err := ParseMessage("multi", strings.NewReader(multipartEML))
	require.NoError(t, err)

	txn, err := extract.NewDefault(nil).ExtractMessage(&msg)
	require.NoError(t, err)
	assert.Equal(t, model.TypeIncome, txn.Type)
	assert.Equal(t, "Rp 2.500.000", txn.FormattedAmount)
}

func TestParseMessage_Errors(t *testing.T) {
	_, err := ParseMessage("empty", strings.NewReader(""))
	assert.Error(t, err)

	noBoundary := "From: a@b.c\r\nContent-Type: multipart/mixed\r\n\r\nbody\r\n"
	_, err = ParseMessage("nob", strings.NewReader(noBoundary))
	assert.Error(t, err)
}

func TestParseMessage_DefaultsToPlainText(t *testing.T) {
	raw := "From: a@b.c\r\n\r\nRp 1.000 tagihan\r\n"
	msg, err := ParseMessage("bare", strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "text/plain", msg.Payload.MimeType)
}

func TestTransferEncoding(t *testing.T) {
	assert.Equal(t, model.EncodingBase64, transferEncoding(" BASE64 "))
	assert.Equal(t, model.EncodingQuotedPrintable, transferEncoding("Quoted-Printable"))
	assert.Empty(t, transferEncoding("7bit"))
	assert.Empty(t, transferEncoding(""))
}
