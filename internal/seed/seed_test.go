package seed

import (
	"testing"

	"storynest/internal/database"
	"storynest/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models()...))
	return db
}

func TestFactoryCreatesConsistentEntities(t *testing.T) {
	db := testDB(t)
	f := NewFactory(db)

	user, err := f.CreateUser()
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEmpty(t, user.Username)
	assert.NotEmpty(t, user.Nickname)

	baby, err := f.CreateBaby(user)
	require.NoError(t, err)
	assert.Equal(t, user.ID, baby.UserID)

	story, err := f.CreateStory(user, func(s *models.Story) {
		s.Image = "https://cdn.example.com/img.png"
		s.VoiceContent = "https://cdn.example.com/voice.mp3"
	})
	require.NoError(t, err)
	assert.True(t, story.HasShareableMedia())

	post, err := f.CreateSharePost(user, story)
	require.NoError(t, err)
	assert.Equal(t, models.ShareSourceStory, post.SourceType)
	assert.Equal(t, story.ID, post.SourceID)
	assert.Equal(t, user.Nickname+"님", post.DisplayName)

	other, err := f.CreateUser()
	require.NoError(t, err)
	require.NoError(t, f.CreateLike(other, post))
	assert.Error(t, f.CreateLike(other, post), "duplicate like violates the unique index")

	comment, err := f.CreateComment(other, post)
	require.NoError(t, err)
	assert.Equal(t, other.Username, comment.Username)
	assert.Nil(t, comment.UpdatedAt)
}

func TestSeedPopulatesFeed(t *testing.T) {
	db := testDB(t)

	// sqlite has no TRUNCATE ... CASCADE; keep ShouldClean off here.
	require.NoError(t, Seed(db, Options{NumUsers: 5, NumStories: 12}))

	var userCount, babyCount, storyCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Baby{}).Count(&babyCount).Error)
	require.NoError(t, db.Model(&models.Story{}).Count(&storyCount).Error)

	assert.Equal(t, int64(5), userCount)
	assert.Equal(t, int64(5), babyCount)
	assert.Equal(t, int64(12), storyCount)

	var posts []models.SharePost
	require.NoError(t, db.Find(&posts).Error)
	for _, post := range posts {
		assert.Equal(t, models.ShareSourceStory, post.SourceType)
		assert.NotEmpty(t, post.DisplayName)
	}
}
