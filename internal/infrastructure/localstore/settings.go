package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	vo "github.com/gorodok-inc/gorodok/internal/domain/report/valueobjects"
)

const (
	AdminEmailOverridesKey = "admin_email_overrides"
	WifiFavoritesKey       = "wifi_favorites"
)

var emailValidator = validator.New()

// AdminEmails returns the per-category notification recipients.
func (s *Store) AdminEmails(ctx context.Context) (map[vo.Category]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adminEmails(ctx)
}

// SetAdminEmail overrides the recipient for a category. An empty email
// removes the override.
func (s *Store) SetAdminEmail(ctx context.Context, category vo.Category, email string) error {
	if !category.IsValid() {
		return fmt.Errorf("invalid report category: %s", category)
	}
	email = strings.TrimSpace(email)
	if email != "" {
		if err := emailValidator.Var(email, "email"); err != nil {
			return fmt.Errorf("invalid email address: %s", email)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	overrides, err := s.adminEmails(ctx)
	if err != nil {
		return err
	}
	if email == "" {
		delete(overrides, category)
	} else {
		overrides[category] = email
	}
	return s.setJSON(ctx, AdminEmailOverridesKey, overrides)
}

// Favorites returns the favourite Wi-Fi point ids, sorted.
func (s *Store) Favorites(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favorites(ctx)
}

// ToggleFavorite adds the point when absent and removes it otherwise. It
// returns whether the point is a favourite afterwards.
func (s *Store) ToggleFavorite(ctx context.Context, pointID string) (bool, error) {
	pointID = strings.TrimSpace(pointID)
	if pointID == "" {
		return false, fmt.Errorf("point id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	favs, err := s.favorites(ctx)
	if err != nil {
		return false, err
	}

	set := make(map[string]struct{}, len(favs)+1)
	for _, f := range favs {
		set[f] = struct{}{}
	}
	_, present := set[pointID]
	if present {
		delete(set, pointID)
	} else {
		set[pointID] = struct{}{}
	}

	next := make([]string, 0, len(set))
	for f := range set {
		next = append(next, f)
	}
	sort.Strings(next)

	if err := s.setJSON(ctx, WifiFavoritesKey, next); err != nil {
		return false, err
	}
	return !present, nil
}

func (s *Store) adminEmails(ctx context.Context) (map[vo.Category]string, error) {
	overrides := make(map[vo.Category]string)
	if err := s.getJSON(ctx, AdminEmailOverridesKey, &overrides); err != nil {
		return nil, err
	}
	return overrides, nil
}

func (s *Store) favorites(ctx context.Context) ([]string, error) {
	var favs []string
	if err := s.getJSON(ctx, WifiFavoritesKey, &favs); err != nil {
		return nil, err
	}
	return favs, nil
}

func (s *Store) getJSON(ctx context.Context, key string, dst interface{}) error {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

func (s *Store) setJSON(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	return nil
}
