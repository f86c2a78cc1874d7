package snapshot

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lumin/internal/storage"
)

var ErrNotFound = errors.New("snapshot: no such snapshot")

// Payload is the portable shape of a guild's structure: its roles and
// channels, without members or messages.
type Payload struct {
	Name     string    `json:"name"`
	Roles    []Role    `json:"roles"`
	Channels []Channel `json:"channels"`
}

type Role struct {
	Name        string `json:"name"`
	Color       int    `json:"color"`
	Permissions int64  `json:"permissions"`
	Hoist       bool   `json:"hoist"`
	Mentionable bool   `json:"mentionable"`
	Position    int    `json:"position"`
}

type Channel struct {
	Name     string `json:"name"`
	Type     int    `json:"type"`
	Topic    string `json:"topic,omitempty"`
	Parent   string `json:"parent,omitempty"`
	Position int    `json:"position"`
	NSFW     bool   `json:"nsfw,omitempty"`
}

// Service stores guild structure snapshots under short share codes. The
// code is the handle for loading a snapshot into any guild, so it doubles
// as a template-sharing mechanism.
type Service struct {
	store *storage.Store
	clock func() time.Time
}

func NewService(store *storage.Store) *Service {
	return &Service{store: store, clock: time.Now}
}

// Save persists the payload and returns its share code.
func (s *Service) Save(ctx context.Context, guildID, name, authorID string, payload Payload) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	code, err := newCode()
	if err != nil {
		return "", err
	}
	record := storage.SnapshotRecord{
		Code:      code,
		GuildID:   guildID,
		Name:      name,
		AuthorID:  authorID,
		Payload:   string(data),
		CreatedAt: s.clock(),
	}
	if err := s.store.AddSnapshot(ctx, record); err != nil {
		return "", err
	}
	return code, nil
}

// Load resolves a share code to its decoded payload.
func (s *Service) Load(ctx context.Context, code string) (Payload, storage.SnapshotRecord, error) {
	record, found, err := s.store.GetSnapshot(ctx, code)
	if err != nil {
		return Payload{}, storage.SnapshotRecord{}, err
	}
	if !found {
		return Payload{}, storage.SnapshotRecord{}, ErrNotFound
	}

	var payload Payload
	if err := json.Unmarshal([]byte(record.Payload), &payload); err != nil {
		return Payload{}, storage.SnapshotRecord{}, fmt.Errorf("snapshot %s: %w", code, err)
	}
	return payload, record, nil
}

func (s *Service) List(ctx context.Context, guildID string) ([]storage.SnapshotRecord, error) {
	return s.store.ListSnapshots(ctx, guildID)
}

func (s *Service) Delete(ctx context.Context, guildID, code string) error {
	return s.store.DeleteSnapshot(ctx, guildID, code)
}

// Share codes are short, unambiguous and case-insensitive.
const codeAlphabet = "abcdefghjkmnpqrstuvwxyz23456789"

func newCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}
