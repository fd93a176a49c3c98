package service

import (
	"context"
	"testing"
	"time"

	"storynest/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestBabyService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("first baby is created", func(t *testing.T) {
		var saved *models.Baby
		repo := &babyRepoStub{
			getByUserID: func(ctx context.Context, userID uint) ([]*models.Baby, error) {
				return nil, nil
			},
			createFn: func(ctx context.Context, baby *models.Baby) error {
				baby.ID = 1
				saved = baby
				return nil
			},
		}
		svc := NewBabyService(repo)

		baby, err := svc.Create(ctx, 1, BabyInput{Name: "  Mina  ", Gender: "girl", BirthDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)})
		require.NoError(t, err)
		assert.Equal(t, "Mina", baby.Name, "name is trimmed")
		require.NotNil(t, saved)
		assert.Equal(t, uint(1), saved.UserID)
	})

	t.Run("second baby is rejected", func(t *testing.T) {
		repo := &babyRepoStub{
			getByUserID: func(ctx context.Context, userID uint) ([]*models.Baby, error) {
				return []*models.Baby{{ID: 1, UserID: userID, Name: "Mina"}}, nil
			},
			createFn: func(ctx context.Context, baby *models.Baby) error {
				t.Fatal("create must not run when a baby already exists")
				return nil
			},
		}
		svc := NewBabyService(repo)

		_, err := svc.Create(ctx, 1, BabyInput{Name: "Juno"})
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("blank name is rejected", func(t *testing.T) {
		svc := NewBabyService(&babyRepoStub{})

		_, err := svc.Create(ctx, 1, BabyInput{Name: "   "})
		assertAppErrorCode(t, err, models.CodeValidation)
	})
}

func TestBabyService_UpdateDelete(t *testing.T) {
	ctx := context.Background()

	owned := func() *babyRepoStub {
		return &babyRepoStub{
			getByIDAndUser: func(ctx context.Context, id, userID uint) (*models.Baby, error) {
				if id != 1 || userID != 1 {
					return nil, gorm.ErrRecordNotFound
				}
				return &models.Baby{ID: 1, UserID: 1, Name: "Mina", Gender: "girl"}, nil
			},
			updateFn: func(ctx context.Context, baby *models.Baby) error { return nil },
			deleteFn: func(ctx context.Context, id, userID uint) error { return nil },
		}
	}

	t.Run("update keeps unset fields", func(t *testing.T) {
		svc := NewBabyService(owned())

		baby, err := svc.Update(ctx, 1, 1, BabyInput{Name: "Juno"})
		require.NoError(t, err)
		assert.Equal(t, "Juno", baby.Name)
		assert.Equal(t, "girl", baby.Gender)
	})

	t.Run("someone else's baby reads as not found", func(t *testing.T) {
		svc := NewBabyService(owned())

		_, err := svc.Update(ctx, 1, 2, BabyInput{Name: "Juno"})
		assertAppErrorCode(t, err, models.CodeNotFound)

		err = svc.Delete(ctx, 1, 2)
		assertAppErrorCode(t, err, models.CodeNotFound)
	})

	t.Run("owner deletes", func(t *testing.T) {
		svc := NewBabyService(owned())
		require.NoError(t, svc.Delete(ctx, 1, 1))
	})
}
