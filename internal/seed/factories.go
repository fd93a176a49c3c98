// Package seed creates demo data for development and testing.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"storynest/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	babyNames = []string{
		"지우", "서연", "하준", "민준", "서윤", "도윤", "예은", "시우",
		"하은", "지호", "수아", "은우", "아린", "준우", "다은", "유찬",
	}

	storyThemes = []string{"adventure", "animals", "bedtime", "family", "nature"}
	storyVoices = []string{"mom", "dad", "grandma", "narrator"}

	storyTitles = []string{
		"토끼의 모험", "달나라 여행", "숲 속의 친구들", "꼬마 공룡의 하루",
		"바닷속 보물찾기", "구름 위의 집", "별을 세는 밤", "무지개 기차",
	}

	commentLines = []string{
		"너무 귀여워요!", "우리 아이도 좋아해요", "그림이 정말 예쁘네요",
		"목소리가 따뜻해요", "잘 보고 갑니다", "최고예요!",
	}
)

// Factory builds domain entities and persists them. Intended for development
// and test databases only.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewFactory creates a Factory bound to the given DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // weak randomness is fine for seeding
	return &Factory{db: db, rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (f *Factory) pick(list []string) string {
	return list[f.rand.Intn(len(list))]
}

// spreadCreatedAt returns a timestamp up to maxDays in the past so feeds look
// lived-in instead of created all at once.
func (f *Factory) spreadCreatedAt(maxDays int) time.Time {
	if maxDays <= 0 {
		maxDays = 30
	}
	return time.Now().
		Add(-time.Duration(f.rand.Intn(maxDays)) * 24 * time.Hour).
		Add(-time.Duration(f.rand.Intn(24)) * time.Hour).
		Add(-time.Duration(f.rand.Intn(60)) * time.Minute)
}

// CreateUser persists a sample user. All seeded accounts share the password
// "password123".
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	username := fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999))
	email := fmt.Sprintf("%s@example.com", username)

	user := &models.User{
		Username:        username,
		Nickname:        fmt.Sprintf("%s네", f.pick(babyNames)),
		Email:           &email,
		HashedPassword:  string(hashed),
		ProfileImageURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateBaby persists a baby profile for the user.
func (f *Factory) CreateBaby(user *models.User, overrides ...func(*models.Baby)) (*models.Baby, error) {
	genders := []string{"girl", "boy", "unknown"}
	baby := &models.Baby{
		UserID:    user.ID,
		Name:      f.pick(babyNames),
		Gender:    f.pick(genders),
		BirthDate: gofakeit.DateRange(time.Now().AddDate(-6, 0, 0), time.Now().AddDate(-1, 0, 0)),
	}

	for _, override := range overrides {
		override(baby)
	}
	if err := f.db.Create(baby).Error; err != nil {
		return nil, err
	}
	return baby, nil
}

// CreateStory persists a generated-looking story, with media attached most of
// the time so sharing flows have something to work with.
func (f *Factory) CreateStory(user *models.User, overrides ...func(*models.Story)) (*models.Story, error) {
	story := &models.Story{
		UserID:    user.ID,
		Theme:     f.pick(storyThemes),
		Voice:     f.pick(storyVoices),
		Title:     f.pick(storyTitles),
		Content:   gofakeit.Paragraph(2, 4, 8, "\n"),
		CreatedAt: f.spreadCreatedAt(60),
	}
	if f.rand.Float32() < 0.8 {
		story.Image = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
		story.VoiceContent = fmt.Sprintf("https://cdn.example.com/voices/%s.mp3", gofakeit.UUID())
	}

	for _, override := range overrides {
		override(story)
	}
	if err := f.db.Create(story).Error; err != nil {
		return nil, err
	}
	return story, nil
}

// CreateGalleryEntry persists the gallery row for a story, optionally with a
// colored-in image.
func (f *Factory) CreateGalleryEntry(user *models.User, story *models.Story) (*models.Gallery, error) {
	entry := &models.Gallery{
		StoryID:       story.ID,
		UserID:        user.ID,
		StoryTitle:    story.Title,
		ColorImageURL: story.Image,
	}
	if f.rand.Float32() < 0.5 {
		entry.ColoringImageURL = fmt.Sprintf("https://picsum.photos/seed/colored-%s/800/800", gofakeit.UUID())
	}
	if err := f.db.Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// CreateSharePost persists a share post derived from the story, snapshotting
// the display name the way the share service does.
func (f *Factory) CreateSharePost(user *models.User, story *models.Story, overrides ...func(*models.SharePost)) (*models.SharePost, error) {
	post := &models.SharePost{
		UserID:       user.ID,
		StoryTitle:   story.Title,
		VideoURL:     fmt.Sprintf("https://cdn.example.com/videos/%d/story-%d.mp4", user.ID, story.ID),
		ImageURL:     story.Image,
		ThumbnailURL: story.Image,
		SourceType:   models.ShareSourceStory,
		SourceID:     story.ID,
		DisplayName:  user.Nickname + "님",
		CreatedAt:    f.spreadCreatedAt(30),
	}

	for _, override := range overrides {
		override(post)
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateLike persists a like from user on post. Duplicate pairs violate the
// unique index and are reported as errors.
func (f *Factory) CreateLike(user *models.User, post *models.SharePost) error {
	return f.db.Create(&models.ShareLike{UserID: user.ID, SharePostID: post.ID}).Error
}

// CreateComment persists a comment on the post authored by the user.
func (f *Factory) CreateComment(user *models.User, post *models.SharePost, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		SharePostID: post.ID,
		UserID:      user.ID,
		Username:    user.Username,
		DisplayName: user.Nickname + "님",
		Content:     f.pick(commentLines),
	}

	for _, override := range overrides {
		override(comment)
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}
