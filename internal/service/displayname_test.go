package service

import (
	"context"
	"errors"
	"testing"

	"storynest/internal/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// babyRepoStub implements repository.BabyRepository with function fields.
type babyRepoStub struct {
	createFn        func(ctx context.Context, baby *models.Baby) error
	getByIDAndUser  func(ctx context.Context, id, userID uint) (*models.Baby, error)
	getByUserID     func(ctx context.Context, userID uint) ([]*models.Baby, error)
	firstByUserIDFn func(ctx context.Context, userID uint) (*models.Baby, error)
	updateFn        func(ctx context.Context, baby *models.Baby) error
	deleteFn        func(ctx context.Context, id, userID uint) error
}

func (s *babyRepoStub) Create(ctx context.Context, baby *models.Baby) error {
	return s.createFn(ctx, baby)
}

func (s *babyRepoStub) GetByIDAndUser(ctx context.Context, id, userID uint) (*models.Baby, error) {
	return s.getByIDAndUser(ctx, id, userID)
}

func (s *babyRepoStub) GetByUserID(ctx context.Context, userID uint) ([]*models.Baby, error) {
	return s.getByUserID(ctx, userID)
}

func (s *babyRepoStub) FirstByUserID(ctx context.Context, userID uint) (*models.Baby, error) {
	return s.firstByUserIDFn(ctx, userID)
}

func (s *babyRepoStub) Update(ctx context.Context, baby *models.Baby) error {
	return s.updateFn(ctx, baby)
}

func (s *babyRepoStub) Delete(ctx context.Context, id, userID uint) error {
	return s.deleteFn(ctx, id, userID)
}

func noBaby() *babyRepoStub {
	return &babyRepoStub{
		firstByUserIDFn: func(ctx context.Context, userID uint) (*models.Baby, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
}

func withBaby(name string) *babyRepoStub {
	return &babyRepoStub{
		firstByUserIDFn: func(ctx context.Context, userID uint) (*models.Baby, error) {
			return &models.Baby{ID: 1, UserID: userID, Name: name}, nil
		},
	}
}

func TestDisplayNameResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		repo     *babyRepoStub
		user     *models.User
		expected string
	}{
		{
			name:     "baby name wins",
			repo:     withBaby("Mina"),
			user:     &models.User{ID: 1, Username: "alice", Nickname: "지우엄마"},
			expected: "Mina의 부모",
		},
		{
			name:     "nickname when no baby",
			repo:     noBaby(),
			user:     &models.User{ID: 1, Username: "alice", Nickname: "지우엄마"},
			expected: "지우엄마님",
		},
		{
			name:     "username when nothing else",
			repo:     noBaby(),
			user:     &models.User{ID: 1, Username: "alice"},
			expected: "alice님",
		},
		{
			name:     "blank nickname falls through",
			repo:     noBaby(),
			user:     &models.User{ID: 1, Username: "alice", Nickname: "   "},
			expected: "alice님",
		},
		{
			name:     "blank baby name falls through",
			repo:     withBaby("  "),
			user:     &models.User{ID: 1, Username: "alice", Nickname: "지우엄마"},
			expected: "지우엄마님",
		},
		{
			name: "lookup error degrades instead of failing",
			repo: &babyRepoStub{
				firstByUserIDFn: func(ctx context.Context, userID uint) (*models.Baby, error) {
					return nil, errors.New("connection refused")
				},
			},
			user:     &models.User{ID: 1, Username: "alice", Nickname: "지우엄마"},
			expected: "지우엄마님",
		},
		{
			name: "preloaded first baby short-circuits the lookup",
			repo: &babyRepoStub{
				firstByUserIDFn: func(ctx context.Context, userID uint) (*models.Baby, error) {
					t.Fatal("lookup must not run when babies are preloaded")
					return nil, nil
				},
			},
			user: &models.User{
				ID:       1,
				Username: "alice",
				Babies:   []models.Baby{{Name: "Juno"}, {Name: "Mina"}},
			},
			expected: "Juno의 부모",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resolver := NewDisplayNameResolver(tc.repo)
			assert.Equal(t, tc.expected, resolver.Resolve(ctx, tc.user))
		})
	}
}
