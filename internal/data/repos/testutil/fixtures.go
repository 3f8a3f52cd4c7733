package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/neurofocus-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	now := time.Now().UTC()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		Name:      "Test User",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedProgress(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, streak, max int, lastStreakDate string) *types.Progress {
	tb.Helper()
	p := types.NewProgress(userID, time.Now())
	p.FocusStreak = streak
	p.MaxStreak = max
	p.LastStreakDate = lastStreakDate
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed progress: %v", err)
	}
	return p
}
