package gmail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/common"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/model"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

const messagesPath = "/gmail/v1/users/me/messages"

func newTestClient(t *testing.T, handler http.Handler, onReauth func()) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := ClientConfig{
		UserID:   "me",
		OnReauth: onReauth,
		Retry: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: time.Millisecond,
			MaxDelay:     2 * time.Millisecond,
			Multiplier:   2,
		},
	}
	client, err := NewClient(context.Background(), cfg, nil,
		option.WithHTTPClient(srv.Client()),
		option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)
	return client
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func apiError(code int, reason string) map[string]any {
	return map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": reason,
			"errors":  []map[string]any{{"reason": reason, "message": reason}},
		},
	}
}

func TestClient_ListPaginates(t *testing.T) {
	var (
		mu      sync.Mutex
		queries []string
	)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, messagesPath, r.URL.Path)
		mu.Lock()
		queries = append(queries, r.URL.Query().Get("q"))
		mu.Unlock()

		if r.URL.Query().Get("pageToken") == "" {
			assert.Equal(t, "3", r.URL.Query().Get("maxResults"))
			writeJSON(w, http.StatusOK, map[string]any{
				"messages":      []map[string]string{{"id": "m1"}, {"id": "m2"}},
				"nextPageToken": "next",
			})
			return
		}
		assert.Equal(t, "next", r.URL.Query().Get("pageToken"))
		assert.Equal(t, "1", r.URL.Query().Get("maxResults"))
		writeJSON(w, http.StatusOK, map[string]any{
			"messages":      []map[string]string{{"id": "m3"}},
			"nextPageToken": "more",
		})
	})

	client := newTestClient(t, handler, nil)
	q := Query{Senders: []string{"bca@bca.co.id"}, Start: date(2025, 9, 1), End: date(2025, 9, 2), MaxResults: 3}

	ids, err := client.List(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2", "m3"}, ids)
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, queries, 2)
	assert.Equal(t, q.String(), queries[0])
}

func TestClient_ListEmpty(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"resultSizeEstimate": 0})
	})

	ids, err := newTestClient(t, handler, nil).List(context.Background(), testQuery())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestClient_GetConvertsMessage(t *testing.T) {
	html := "<html><body><p>Transfer masuk</p><p>IDR 2,500,000.00</p></body></html>"
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, messagesPath+"/abc", r.URL.Path)
		assert.Equal(t, "full", r.URL.Query().Get("format"))
		writeJSON(w, http.StatusOK, map[string]any{
			"id":           "abc",
			"threadId":     "t1",
			"internalDate": "1756695600000",
			"payload": map[string]any{
				"mimeType": "multipart/alternative",
				"headers": []map[string]string{
					{"name": "From", "value": "bca@bca.co.id"},
					{"name": "Subject", "value": "Notifikasi"},
				},
				"body": map[string]any{"size": 0},
				"parts": []map[string]any{
					{"mimeType": "text/plain", "body": map[string]any{"data": b64url("Rp 10.000 masuk")}},
					{"mimeType": "text/html", "body": map[string]any{"data": b64url(html)}},
				},
			},
		})
	})

	msg, err := newTestClient(t, handler, nil).Get(context.Background(), "abc")
	require.NoError(t, err)

	assert.Equal(t, "abc", msg.ID)
	assert.Equal(t, "t1", msg.ThreadID)
	assert.Equal(t, time.UnixMilli(1756695600000).UTC(), msg.InternalDate)
	assert.Equal(t, "bca@bca.co.id", msg.Header("from"))
	assert.True(t, msg.Payload.IsMultipart())
	require.Len(t, msg.Payload.Parts, 2)
	assert.Equal(t, model.EncodingBase64URL, msg.Payload.Parts[1].Encoding)
	assert.Equal(t, b64url(html), msg.Payload.Parts[1].Data)
}

func TestClient_UnauthorizedNeedsReauth(t *testing.T) {
	var hits atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusUnauthorized, apiError(401, "authError"))
	})

	var reauthCalled atomic.Bool
	client := newTestClient(t, handler, func() { reauthCalled.Store(true) })

	_, err := client.Get(context.Background(), "abc")
	assert.ErrorIs(t, err, common.ErrReauthRequired)
	assert.Equal(t, int32(1), hits.Load())
	assert.True(t, reauthCalled.Load())
}

func TestClient_RetriesTransientErrors(t *testing.T) {
	var hits atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		switch hits.Add(1) {
		case 1:
			writeJSON(w, http.StatusServiceUnavailable, apiError(503, "backendError"))
		case 2:
			writeJSON(w, http.StatusTooManyRequests, apiError(429, "rateLimitExceeded"))
		default:
			writeJSON(w, http.StatusOK, map[string]any{"messages": []map[string]string{{"id": "ok"}}})
		}
	})

	ids, err := newTestClient(t, handler, nil).List(context.Background(), testQuery())
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, ids)
	assert.Equal(t, int32(3), hits.Load())
}

func TestClient_PermanentErrorNotRetried(t *testing.T) {
	var hits atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusNotFound, apiError(404, "notFound"))
	})

	_, err := newTestClient(t, handler, nil).Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "missing"))
	assert.Equal(t, int32(1), hits.Load())
}

func TestClient_ClassifyForbiddenRateLimit(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusForbidden, apiError(403, "userRateLimitExceeded"))
	})

	_, err := newTestClient(t, handler, nil).Get(context.Background(), "abc")
	assert.ErrorIs(t, err, common.ErrMaxRetries)
	assert.ErrorIs(t, err, common.ErrRateLimit)
}
