package gmail

import (
	"testing"
	"time"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/common"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestQuery_String(t *testing.T) {
	q := Query{
		Senders: []string{"noreply.livin@bankmandiri.co.id", "bca@bca.co.id"},
		Start:   date(2025, 9, 1),
		End:     date(2025, 9, 30),
	}

	assert.Equal(t,
		"(from:noreply.livin@bankmandiri.co.id OR from:bca@bca.co.id) after:2025/09/01 before:2025/10/01",
		q.String())
}

func TestQuery_StringSingleDay(t *testing.T) {
	q := Query{Senders: []string{"bca@bca.co.id"}, Start: date(2025, 12, 31), End: date(2025, 12, 31)}
	assert.Equal(t, "(from:bca@bca.co.id) after:2025/12/31 before:2026/01/01", q.String())
}

func TestQuery_Key(t *testing.T) {
	a := Query{Senders: []string{"b@x", "A@x"}, Start: date(2025, 9, 1), End: date(2025, 9, 2)}
	b := Query{Senders: []string{"a@x", "b@x"}, Start: date(2025, 9, 1), End: date(2025, 9, 2), MaxResults: DefaultMaxResults}
	c := Query{Senders: []string{"a@x", "b@x"}, Start: date(2025, 9, 1), End: date(2025, 9, 3)}

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
	// Key must not reorder the caller's slice.
	assert.Equal(t, []string{"b@x", "A@x"}, a.Senders)
}

func TestQuery_Limit(t *testing.T) {
	assert.Equal(t, int64(DefaultMaxResults), Query{}.Limit())
	assert.Equal(t, int64(10), Query{MaxResults: 10}.Limit())
}

func TestQuery_Validate(t *testing.T) {
	allowed := DefaultAllowedSenders

	tests := []struct {
		wantErr error
		name    string
		query   Query
	}{
		{
			name:  "valid",
			query: Query{Senders: []string{"bca@bca.co.id"}, Start: date(2025, 9, 1), End: date(2025, 9, 1)},
		},
		{
			name:  "case insensitive sender",
			query: Query{Senders: []string{"BCA@bca.co.id"}, Start: date(2025, 9, 1), End: date(2025, 9, 2)},
		},
		{
			name:    "no senders",
			query:   Query{Start: date(2025, 9, 1), End: date(2025, 9, 2)},
			wantErr: common.ErrNoSenders,
		},
		{
			name:    "unknown sender",
			query:   Query{Senders: []string{"promo@shop.example"}, Start: date(2025, 9, 1), End: date(2025, 9, 2)},
			wantErr: common.ErrSenderNotAllowed,
		},
		{
			name:    "end before start",
			query:   Query{Senders: []string{"bca@bca.co.id"}, Start: date(2025, 9, 2), End: date(2025, 9, 1)},
			wantErr: common.ErrInvalidDateRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate(allowed)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestQuery_Matches(t *testing.T) {
	q := Query{Senders: []string{"bca@bca.co.id"}, Start: date(2025, 9, 1), End: date(2025, 9, 30)}

	assert.True(t, q.Matches("BCA <bca@bca.co.id>", date(2025, 9, 15)))
	assert.True(t, q.Matches("bca@bca.co.id", time.Date(2025, 9, 30, 23, 59, 0, 0, time.UTC)))
	assert.False(t, q.Matches("bca@bca.co.id", date(2025, 10, 1)))
	assert.False(t, q.Matches("bca@bca.co.id", date(2025, 8, 31)))
	assert.False(t, q.Matches("other@bank.example", date(2025, 9, 15)))
	assert.True(t, q.Matches("bca@bca.co.id", time.Time{}))
}
