// Package gmail fetches bank notification emails and turns them into
// transactions.
package gmail

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/common"
)

// DefaultMaxResults caps how many messages one query lists.
const DefaultMaxResults = 200

const queryDateLayout = "2006/01/02"

// DefaultAllowedSenders are the bank notification addresses the tracker
// accepts out of the box.
var DefaultAllowedSenders = []string{
	"noreply.livin@bankmandiri.co.id",
	"bca@bca.co.id",
}

// Query selects notification messages by sender and inclusive date range.
type Query struct {
	Start      time.Time
	End        time.Time
	Senders    []string
	MaxResults int64
}

// String renders the Gmail search expression. The "before:" bound is the
// day after End so that End itself is included.
func (q Query) String() string {
	from := make([]string, 0, len(q.Senders))
	for _, s := range q.Senders {
		from = append(from, "from:"+s)
	}

	return fmt.Sprintf("(%s) after:%s before:%s",
		strings.Join(from, " OR "),
		q.Start.Format(queryDateLayout),
		q.End.AddDate(0, 0, 1).Format(queryDateLayout))
}

// Key identifies the query for caching; sender order does not matter.
func (q Query) Key() string {
	senders := slices.Clone(q.Senders)
	for i, s := range senders {
		senders[i] = strings.ToLower(strings.TrimSpace(s))
	}
	slices.Sort(senders)

	return fmt.Sprintf("%s|%s|%s|%d",
		strings.Join(senders, ","),
		q.Start.Format(time.DateOnly),
		q.End.Format(time.DateOnly),
		q.Limit())
}

// Limit is MaxResults or DefaultMaxResults when unset.
func (q Query) Limit() int64 {
	if q.MaxResults <= 0 {
		return DefaultMaxResults
	}
	return q.MaxResults
}

// Validate rejects queries with no senders, senders outside allowed, or an
// end date before the start date.
func (q Query) Validate(allowed []string) error {
	if len(q.Senders) == 0 {
		return common.ErrNoSenders
	}

	for _, s := range q.Senders {
		if !containsFold(allowed, s) {
			return fmt.Errorf("%w: %s", common.ErrSenderNotAllowed, s)
		}
	}

	if dayOf(q.End).Before(dayOf(q.Start)) {
		return fmt.Errorf("%w: %s < %s", common.ErrInvalidDateRange,
			q.End.Format(time.DateOnly), q.Start.Format(time.DateOnly))
	}

	return nil
}

// Matches reports whether a message from sender at date falls inside the
// query. Used by sources that cannot search server-side.
func (q Query) Matches(sender string, date time.Time) bool {
	addr := strings.ToLower(sender)
	matched := false
	for _, s := range q.Senders {
		if strings.Contains(addr, strings.ToLower(strings.TrimSpace(s))) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}

	if date.IsZero() {
		return true
	}
	day := dayOf(date.In(q.Start.Location()))
	return !day.Before(dayOf(q.Start)) && !day.After(dayOf(q.End))
}

func containsFold(list []string, s string) bool {
	s = strings.TrimSpace(s)
	for _, v := range list {
		if strings.EqualFold(strings.TrimSpace(v), s) {
			return true
		}
	}
	return false
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
