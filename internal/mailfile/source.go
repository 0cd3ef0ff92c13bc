package mailfile

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/gmail"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/model"
)

// Extension is the file suffix LoadDir picks up.
const Extension = ".eml"

// LoadDir parses every .eml file in dir, ordered by file name. Files that
// cannot be read or parsed are skipped with a warning.
func LoadDir(dir string, logger *slog.Logger) ([]model.RawMessage, error) {
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read mail directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), Extension) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	messages := make([]model.RawMessage, 0, len(names))
	for _, name := range names {
		msg, err := loadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("skipping mail file", "file", name, "error", err)
			continue
		}
		messages = append(messages, msg)
	}

	logger.Debug("loaded mail files", "dir", dir, "count", len(messages))
	return messages, nil
}

func loadFile(path string) (model.RawMessage, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return model.RawMessage{}, err
	}
	defer func() { _ = f.Close() }()

	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	msg, err := ParseMessage(id, f)
	if err != nil {
		return model.RawMessage{}, err
	}

	if info, statErr := f.Stat(); statErr == nil {
		msg.InternalDate = info.ModTime().UTC()
	}
	return msg, nil
}

// Source serves a directory of .eml files as a gmail.MessageSource,
// filtering by sender and date locally.
type Source struct {
	messages map[string]model.RawMessage
	order    []string
}

// NewSource loads dir into memory.
func NewSource(dir string, logger *slog.Logger) (*Source, error) {
	messages, err := LoadDir(dir, logger)
	if err != nil {
		return nil, err
	}

	s := &Source{messages: make(map[string]model.RawMessage, len(messages))}
	for _, msg := range messages {
		s.messages[msg.ID] = msg
		s.order = append(s.order, msg.ID)
	}
	return s, nil
}

// List returns ids of loaded messages matching q, up to q.Limit().
func (s *Source) List(_ context.Context, q gmail.Query) ([]string, error) {
	var ids []string
	for _, id := range s.order {
		if int64(len(ids)) >= q.Limit() {
			break
		}
		msg := s.messages[id]
		if q.Matches(msg.Header("From"), messageDate(&msg)) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Get returns a loaded message by id.
func (s *Source) Get(_ context.Context, id string) (*model.RawMessage, error) {
	msg, ok := s.messages[id]
	if !ok {
		return nil, fmt.Errorf("message %s not found", id)
	}
	return &msg, nil
}

func messageDate(msg *model.RawMessage) time.Time {
	if t, err := mail.ParseDate(msg.Header("Date")); err == nil {
		return t
	}
	return msg.InternalDate
}

var _ gmail.MessageSource = (*Source)(nil)
