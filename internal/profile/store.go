// Package profile persists the singleton user profile.
package profile

import (
	"context"
	"encoding/json"
	"fmt"

	"questlog/internal/model"
	"questlog/internal/storage"
)

// StorageKey holds the serialized profile record.
const StorageKey = "user_profile_v1"

type Store struct {
	kv storage.Store
}

func NewStore(kv storage.Store) *Store {
	return &Store{kv: kv}
}

func defaultProfile() model.UserProfile {
	return model.UserProfile{
		ID:     "local",
		XP:     0,
		Level:  1,
		Coins:  0,
		Streak: 0,
		Points: 0,
		Badges: []model.Badge{},
	}
}

func normalizeProfile(p model.UserProfile) model.UserProfile {
	if p.ID == "" {
		p.ID = "local"
	}
	if p.Level < 1 {
		p.Level = 1
	}
	if p.Streak < 0 {
		p.Streak = 0
	}
	if p.Badges == nil {
		p.Badges = []model.Badge{}
	}
	return p
}

// Load returns the stored profile, initializing and persisting the
// default record on first use.
func (s *Store) Load(ctx context.Context) (model.UserProfile, error) {
	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		return model.UserProfile{}, err
	}
	if !ok {
		p := defaultProfile()
		if err := s.Save(ctx, p); err != nil {
			return model.UserProfile{}, err
		}
		return p, nil
	}

	var p model.UserProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return model.UserProfile{}, fmt.Errorf("profile: decode: %w", err)
	}
	return normalizeProfile(p), nil
}

func (s *Store) Save(ctx context.Context, p model.UserProfile) error {
	b, err := json.MarshalIndent(normalizeProfile(p), "", "  ")
	if err != nil {
		return fmt.Errorf("profile: encode: %w", err)
	}
	if _, err := s.kv.Set(ctx, StorageKey, b); err != nil {
		return err
	}
	return nil
}
