package gmail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/common"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/model"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/service"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// ReadonlyScope is the OAuth scope the client needs.
const ReadonlyScope = gmail.GmailReadonlyScope

// Gmail returns at most this many ids per list page.
const maxPageSize = 500

// MessageSource lists message ids matching a query and fetches single
// messages by id.
type MessageSource interface {
	List(ctx context.Context, q Query) ([]string, error)
	Get(ctx context.Context, id string) (*model.RawMessage, error)
}

// ClientConfig tunes the Gmail API client.
type ClientConfig struct {
	// OnReauth runs when the API rejects the credentials.
	OnReauth func()
	UserID   string
	Retry    service.RetryOptions
}

// DefaultClientConfig reads the authenticated user's mailbox.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		UserID: "me",
		Retry: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     10 * time.Second,
			Multiplier:   2.0,
		},
	}
}

// Client implements MessageSource on the Gmail API.
type Client struct {
	service *gmail.Service
	logger  *slog.Logger
	config  ClientConfig
}

// NewClient creates a Gmail API client. Authentication comes from opts,
// typically option.WithHTTPClient with an OAuth2 client.
func NewClient(ctx context.Context, config ClientConfig, logger *slog.Logger, opts ...option.ClientOption) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if config.UserID == "" {
		config.UserID = "me"
	}

	srv, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create gmail service: %w", err)
	}

	return &Client{
		service: srv,
		logger:  logger,
		config:  config,
	}, nil
}

// List returns the ids of messages matching q, in the order Gmail returns
// them, up to q.Limit().
func (c *Client) List(ctx context.Context, q Query) ([]string, error) {
	limit := q.Limit()
	search := q.String()
	ids := make([]string, 0, limit)
	pageToken := ""

	for int64(len(ids)) < limit {
		pageSize := min(limit-int64(len(ids)), maxPageSize)

		var resp *gmail.ListMessagesResponse
		err := common.WithRetry(ctx, func() error {
			call := c.service.Users.Messages.List(c.config.UserID).
				Q(search).
				MaxResults(pageSize).
				Context(ctx)
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}
			var callErr error
			resp, callErr = call.Do()
			return c.classify(callErr)
		}, c.config.Retry)
		if err != nil {
			return nil, fmt.Errorf("failed to list messages: %w", err)
		}

		for _, m := range resp.Messages {
			ids = append(ids, m.Id)
		}

		if resp.NextPageToken == "" || len(resp.Messages) == 0 {
			break
		}
		pageToken = resp.NextPageToken
	}

	if int64(len(ids)) > limit {
		ids = ids[:limit]
	}

	c.logger.Debug("listed messages", "query", search, "count", len(ids))
	return ids, nil
}

// Get fetches one message in full format.
func (c *Client) Get(ctx context.Context, id string) (*model.RawMessage, error) {
	var msg *gmail.Message
	err := common.WithRetry(ctx, func() error {
		var callErr error
		msg, callErr = c.service.Users.Messages.Get(c.config.UserID, id).
			Format("full").
			Context(ctx).
			Do()
		return c.classify(callErr)
	}, c.config.Retry)
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", id, err)
	}

	raw := convertMessage(msg)
	return &raw, nil
}

// classify maps API errors onto the retry and re-authentication sentinels.
func (c *Client) classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, common.ErrReauthRequired) {
		return err
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		// Transport failures are worth another attempt.
		return common.Transient(err)
	}

	switch {
	case apiErr.Code == http.StatusUnauthorized:
		if c.config.OnReauth != nil {
			c.config.OnReauth()
		}
		return fmt.Errorf("%w: %v", common.ErrReauthRequired, err)
	case apiErr.Code == http.StatusTooManyRequests || isRateLimitReason(apiErr):
		return fmt.Errorf("%w: %v", common.ErrRateLimit, err)
	case apiErr.Code >= http.StatusInternalServerError:
		return common.Transient(err)
	default:
		return common.Permanent(err)
	}
}

func isRateLimitReason(apiErr *googleapi.Error) bool {
	if apiErr.Code != http.StatusForbidden {
		return false
	}
	for _, item := range apiErr.Errors {
		if item.Reason == "rateLimitExceeded" || item.Reason == "userRateLimitExceeded" {
			return true
		}
	}
	return false
}

func convertMessage(msg *gmail.Message) model.RawMessage {
	raw := model.RawMessage{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
	}
	if msg.InternalDate > 0 {
		raw.InternalDate = time.UnixMilli(msg.InternalDate).UTC()
	}
	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			raw.Headers = append(raw.Headers, model.Header{Name: h.Name, Value: h.Value})
		}
		raw.Payload = convertPart(msg.Payload)
	}
	return raw
}

func convertPart(part *gmail.MessagePart) model.MessagePart {
	out := model.MessagePart{
		MimeType: part.MimeType,
		Encoding: model.EncodingBase64URL,
	}
	if part.Body != nil {
		out.Data = part.Body.Data
	}
	for _, child := range part.Parts {
		if child == nil {
			continue
		}
		out.Parts = append(out.Parts, convertPart(child))
	}
	return out
}
