package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"storynest/internal/generation"
	"storynest/internal/models"
	"storynest/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// shareRepoStub implements repository.SharePostRepository with function fields.
type shareRepoStub struct {
	createFn        func(ctx context.Context, post *models.SharePost) error
	getByIDFn       func(ctx context.Context, id uint, currentUserID uint) (*models.SharePost, error)
	listFn          func(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.SharePost, error)
	getByUserIDFn   func(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.SharePost, error)
	popularFn       func(ctx context.Context, limit int, currentUserID uint) ([]*models.SharePost, error)
	recentFn        func(ctx context.Context, limit int, currentUserID uint) ([]*models.SharePost, error)
	existsBySource  func(ctx context.Context, source models.ShareSource, userID uint) (bool, error)
	deleteCascadeFn func(ctx context.Context, id uint) error
	likeFn          func(ctx context.Context, userID, postID uint) error
	unlikeFn        func(ctx context.Context, userID, postID uint) error
	toggleLikeFn    func(ctx context.Context, userID, postID uint) (bool, error)
	isLikedFn       func(ctx context.Context, userID, postID uint) (bool, error)
	userStatsFn     func(ctx context.Context, userID uint) (int64, int64, error)
}

func (s *shareRepoStub) Create(ctx context.Context, post *models.SharePost) error {
	return s.createFn(ctx, post)
}

func (s *shareRepoStub) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.SharePost, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}

func (s *shareRepoStub) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.SharePost, error) {
	return s.listFn(ctx, limit, offset, currentUserID)
}

func (s *shareRepoStub) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.SharePost, error) {
	return s.getByUserIDFn(ctx, userID, limit, offset, currentUserID)
}

func (s *shareRepoStub) Popular(ctx context.Context, limit int, currentUserID uint) ([]*models.SharePost, error) {
	return s.popularFn(ctx, limit, currentUserID)
}

func (s *shareRepoStub) Recent(ctx context.Context, limit int, currentUserID uint) ([]*models.SharePost, error) {
	return s.recentFn(ctx, limit, currentUserID)
}

func (s *shareRepoStub) ExistsBySource(ctx context.Context, source models.ShareSource, userID uint) (bool, error) {
	if s.existsBySource == nil {
		return false, nil
	}
	return s.existsBySource(ctx, source, userID)
}

func (s *shareRepoStub) DeleteCascade(ctx context.Context, id uint) error {
	return s.deleteCascadeFn(ctx, id)
}

func (s *shareRepoStub) Like(ctx context.Context, userID, postID uint) error {
	return s.likeFn(ctx, userID, postID)
}

func (s *shareRepoStub) Unlike(ctx context.Context, userID, postID uint) error {
	return s.unlikeFn(ctx, userID, postID)
}

func (s *shareRepoStub) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	return s.toggleLikeFn(ctx, userID, postID)
}

func (s *shareRepoStub) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, postID)
}

func (s *shareRepoStub) UserStats(ctx context.Context, userID uint) (int64, int64, error) {
	return s.userStatsFn(ctx, userID)
}

// inMemoryShareRepo wires createFn/getByIDFn to a captured post so the
// create-then-refresh round trip in the service works without a database.
func inMemoryShareRepo() *shareRepoStub {
	stub := &shareRepoStub{}
	var saved *models.SharePost
	stub.createFn = func(ctx context.Context, post *models.SharePost) error {
		post.ID = 101
		saved = post
		return nil
	}
	stub.getByIDFn = func(ctx context.Context, id uint, currentUserID uint) (*models.SharePost, error) {
		if saved == nil || saved.ID != id {
			return nil, gorm.ErrRecordNotFound
		}
		return saved, nil
	}
	return stub
}

type storyRepoStub struct {
	createFn             func(ctx context.Context, story *models.Story) error
	getByIDAndUserFn     func(ctx context.Context, id, userID uint) (*models.Story, error)
	getByUserIDFn        func(ctx context.Context, userID uint, limit, offset int) ([]*models.Story, error)
	getWithImageByUserFn func(ctx context.Context, userID uint) ([]*models.Story, error)
	countByUserIDFn      func(ctx context.Context, userID uint) (int64, error)
	updateFn             func(ctx context.Context, story *models.Story) error
	deleteFn             func(ctx context.Context, id, userID uint) error
}

func (s *storyRepoStub) Create(ctx context.Context, story *models.Story) error {
	return s.createFn(ctx, story)
}

func (s *storyRepoStub) GetByIDAndUser(ctx context.Context, id, userID uint) (*models.Story, error) {
	return s.getByIDAndUserFn(ctx, id, userID)
}

func (s *storyRepoStub) GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Story, error) {
	return s.getByUserIDFn(ctx, userID, limit, offset)
}

func (s *storyRepoStub) GetWithImageByUserID(ctx context.Context, userID uint) ([]*models.Story, error) {
	return s.getWithImageByUserFn(ctx, userID)
}

func (s *storyRepoStub) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	return s.countByUserIDFn(ctx, userID)
}

func (s *storyRepoStub) Update(ctx context.Context, story *models.Story) error {
	return s.updateFn(ctx, story)
}

func (s *storyRepoStub) Delete(ctx context.Context, id, userID uint) error {
	return s.deleteFn(ctx, id, userID)
}

type galleryRepoStub struct {
	upsertFn            func(ctx context.Context, gallery *models.Gallery) error
	getByIDAndUserFn    func(ctx context.Context, id, userID uint) (*models.Gallery, error)
	getByStoryAndUserFn func(ctx context.Context, storyID, userID uint) (*models.Gallery, error)
	getByUserIDFn       func(ctx context.Context, userID uint) ([]*models.Gallery, error)
	countColoringFn     func(ctx context.Context, userID uint) (int64, error)
	deleteFn            func(ctx context.Context, id, userID uint) error
}

func (s *galleryRepoStub) Upsert(ctx context.Context, gallery *models.Gallery) error {
	return s.upsertFn(ctx, gallery)
}

func (s *galleryRepoStub) GetByIDAndUser(ctx context.Context, id, userID uint) (*models.Gallery, error) {
	return s.getByIDAndUserFn(ctx, id, userID)
}

func (s *galleryRepoStub) GetByStoryAndUser(ctx context.Context, storyID, userID uint) (*models.Gallery, error) {
	return s.getByStoryAndUserFn(ctx, storyID, userID)
}

func (s *galleryRepoStub) GetByUserID(ctx context.Context, userID uint) ([]*models.Gallery, error) {
	return s.getByUserIDFn(ctx, userID)
}

func (s *galleryRepoStub) CountColoringByUserID(ctx context.Context, userID uint) (int64, error) {
	return s.countColoringFn(ctx, userID)
}

func (s *galleryRepoStub) Delete(ctx context.Context, id, userID uint) error {
	return s.deleteFn(ctx, id, userID)
}

type coloringRepoStub struct {
	upsertTemplateFn     func(ctx context.Context, tpl *models.ColoringTemplate) error
	getTemplateFn        func(ctx context.Context, storyID, userID uint) (*models.ColoringTemplate, error)
	getTemplatesByUserFn func(ctx context.Context, userID uint) ([]*models.ColoringTemplate, error)
	createWorkFn         func(ctx context.Context, work *models.ColoringWork) error
	getWorkByIDAndUserFn func(ctx context.Context, id, userID uint) (*models.ColoringWork, error)
	getWorksByUserIDFn   func(ctx context.Context, userID uint) ([]*models.ColoringWork, error)
	countWorksFn         func(ctx context.Context, userID uint) (int64, error)
	deleteWorkFn         func(ctx context.Context, id, userID uint) error
}

func (s *coloringRepoStub) UpsertTemplate(ctx context.Context, tpl *models.ColoringTemplate) error {
	return s.upsertTemplateFn(ctx, tpl)
}

func (s *coloringRepoStub) GetTemplateByStoryAndUser(ctx context.Context, storyID, userID uint) (*models.ColoringTemplate, error) {
	return s.getTemplateFn(ctx, storyID, userID)
}

func (s *coloringRepoStub) GetTemplatesByUserID(ctx context.Context, userID uint) ([]*models.ColoringTemplate, error) {
	return s.getTemplatesByUserFn(ctx, userID)
}

func (s *coloringRepoStub) CreateWork(ctx context.Context, work *models.ColoringWork) error {
	return s.createWorkFn(ctx, work)
}

func (s *coloringRepoStub) GetWorkByIDAndUser(ctx context.Context, id, userID uint) (*models.ColoringWork, error) {
	return s.getWorkByIDAndUserFn(ctx, id, userID)
}

func (s *coloringRepoStub) GetWorksByUserID(ctx context.Context, userID uint) ([]*models.ColoringWork, error) {
	return s.getWorksByUserIDFn(ctx, userID)
}

func (s *coloringRepoStub) CountWorksByUserID(ctx context.Context, userID uint) (int64, error) {
	return s.countWorksFn(ctx, userID)
}

func (s *coloringRepoStub) DeleteWork(ctx context.Context, id, userID uint) error {
	return s.deleteWorkFn(ctx, id, userID)
}

type userRepoStub struct {
	createFn            func(ctx context.Context, user *models.User) error
	getByIDFn           func(ctx context.Context, id uint) (*models.User, error)
	getByIDWithBabiesFn func(ctx context.Context, id uint) (*models.User, error)
	getByUsernameFn     func(ctx context.Context, username string) (*models.User, error)
	getByNicknameFn     func(ctx context.Context, nickname string) (*models.User, error)
	getByEmailFn        func(ctx context.Context, email string) (*models.User, error)
	getByGoogleIDFn     func(ctx context.Context, googleID string) (*models.User, error)
	getByKakaoIDFn      func(ctx context.Context, kakaoID string) (*models.User, error)
	updateFn            func(ctx context.Context, user *models.User) error
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}

func (s *userRepoStub) GetByIDWithBabies(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDWithBabiesFn(ctx, id)
}

func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}

func (s *userRepoStub) GetByNickname(ctx context.Context, nickname string) (*models.User, error) {
	return s.getByNicknameFn(ctx, nickname)
}

func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}

func (s *userRepoStub) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return s.getByGoogleIDFn(ctx, googleID)
}

func (s *userRepoStub) GetByKakaoID(ctx context.Context, kakaoID string) (*models.User, error) {
	return s.getByKakaoIDFn(ctx, kakaoID)
}

func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}

// generatorStub implements generation.Generator with function fields.
type generatorStub struct {
	generateStoryFn   func(ctx context.Context, theme, voice string) (*generation.StoryResult, error)
	generateImageFn   func(ctx context.Context, title, content string) (string, error)
	generateVoiceFn   func(ctx context.Context, content, voice string) (string, error)
	createVideoFn     func(ctx context.Context, imagePath, audioPath, title string) (string, error)
	createThumbnailFn func(ctx context.Context, videoPath string) (string, error)
	convertColoringFn func(ctx context.Context, imagePath string) (string, error)
}

func (s *generatorStub) GenerateStory(ctx context.Context, theme, voice string) (*generation.StoryResult, error) {
	return s.generateStoryFn(ctx, theme, voice)
}

func (s *generatorStub) GenerateImage(ctx context.Context, title, content string) (string, error) {
	return s.generateImageFn(ctx, title, content)
}

func (s *generatorStub) GenerateVoice(ctx context.Context, content, voice string) (string, error) {
	return s.generateVoiceFn(ctx, content, voice)
}

func (s *generatorStub) CreateVideo(ctx context.Context, imagePath, audioPath, title string) (string, error) {
	return s.createVideoFn(ctx, imagePath, audioPath, title)
}

func (s *generatorStub) CreateThumbnail(ctx context.Context, videoPath string) (string, error) {
	return s.createThumbnailFn(ctx, videoPath)
}

func (s *generatorStub) ConvertToColoringBook(ctx context.Context, imagePath string) (string, error) {
	return s.convertColoringFn(ctx, imagePath)
}

// storageStub records uploads and returns deterministic URLs.
type storageStub struct {
	uploaded []string
}

func (s *storageStub) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	s.uploaded = append(s.uploaded, key)
	return "https://cdn.test/" + key, nil
}

func (s *storageStub) UploadFile(ctx context.Context, key, localPath, contentType string) (string, error) {
	s.uploaded = append(s.uploaded, key)
	return "https://cdn.test/" + key, nil
}

func (s *storageStub) Delete(ctx context.Context, key string) error { return nil }

func (s *storageStub) URL(key string) string { return "https://cdn.test/" + key }

func userWithBabies(name string) *userRepoStub {
	return &userRepoStub{
		getByIDWithBabiesFn: func(ctx context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "alice", Babies: []models.Baby{{Name: name}}}, nil
		},
	}
}

func storyOwnedBy(userID uint, story *models.Story) *storyRepoStub {
	return &storyRepoStub{
		getByIDAndUserFn: func(ctx context.Context, id, uid uint) (*models.Story, error) {
			if uid != userID || story == nil || story.ID != id {
				return nil, gorm.ErrRecordNotFound
			}
			return story, nil
		},
	}
}

func newShareService(
	shareRepo repository.SharePostRepository,
	storyRepo repository.StoryRepository,
	galleryRepo repository.GalleryRepository,
	coloringRepo repository.ColoringRepository,
	userRepo repository.UserRepository,
	gen generation.Generator,
	store *storageStub,
) *ShareService {
	if store == nil {
		store = &storageStub{}
	}
	return NewShareService(shareRepo, storyRepo, galleryRepo, coloringRepo, userRepo,
		NewDisplayNameResolver(noBaby()), gen, store, nil)
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestShareService_ShareFromStory(t *testing.T) {
	ctx := context.Background()
	story := &models.Story{
		ID: 7, UserID: 1, Title: "달님 안녕",
		Image: "/srv/media/images/7.png", VoiceContent: "/srv/media/voices/7.mp3",
	}

	t.Run("creates post with video and thumbnail", func(t *testing.T) {
		store := &storageStub{}
		gen := &generatorStub{
			createVideoFn: func(ctx context.Context, imagePath, audioPath, title string) (string, error) {
				assert.Equal(t, story.Image, imagePath)
				assert.Equal(t, story.VoiceContent, audioPath)
				assert.Equal(t, story.Title, title)
				return "/srv/media/videos/7.mp4", nil
			},
			createThumbnailFn: func(ctx context.Context, videoPath string) (string, error) {
				return "/srv/media/thumbs/7.jpg", nil
			},
		}
		svc := newShareService(inMemoryShareRepo(), storyOwnedBy(1, story), nil, nil, userWithBabies("Mina"), gen, store)

		post, err := svc.ShareFromStory(ctx, 7, 1)
		require.NoError(t, err)

		assert.Equal(t, models.ShareSourceStory, post.SourceType)
		assert.Equal(t, "달님 안녕", post.StoryTitle)
		assert.Equal(t, "https://cdn.test/videos/1/story-7.mp4", post.VideoURL)
		assert.Equal(t, "https://cdn.test/thumbnails/1/story-7.jpg", post.ThumbnailURL)
		assert.Equal(t, story.Image, post.ImageURL)
		assert.Equal(t, "Mina의 부모", post.DisplayName)
		assert.Len(t, store.uploaded, 2)
	})

	t.Run("video failure aborts the share", func(t *testing.T) {
		created := false
		repo := inMemoryShareRepo()
		inner := repo.createFn
		repo.createFn = func(ctx context.Context, post *models.SharePost) error {
			created = true
			return inner(ctx, post)
		}
		gen := &generatorStub{
			createVideoFn: func(ctx context.Context, imagePath, audioPath, title string) (string, error) {
				return "", models.NewDependencyError("generation request failed", errors.New("boom"))
			},
		}
		svc := newShareService(repo, storyOwnedBy(1, story), nil, nil, userWithBabies(""), gen, nil)

		_, err := svc.ShareFromStory(ctx, 7, 1)
		assertAppErrorCode(t, err, models.CodeDependency)
		assert.False(t, created, "no post may be persisted when video synthesis fails")
	})

	t.Run("thumbnail failure falls back to the story image", func(t *testing.T) {
		gen := &generatorStub{
			createVideoFn: func(ctx context.Context, imagePath, audioPath, title string) (string, error) {
				return "/srv/media/videos/7.mp4", nil
			},
			createThumbnailFn: func(ctx context.Context, videoPath string) (string, error) {
				return "", models.NewDependencyError("generation request failed", errors.New("ffmpeg"))
			},
		}
		svc := newShareService(inMemoryShareRepo(), storyOwnedBy(1, story), nil, nil, userWithBabies(""), gen, nil)

		post, err := svc.ShareFromStory(ctx, 7, 1)
		require.NoError(t, err)
		assert.Equal(t, story.Image, post.ThumbnailURL)
		assert.NotEmpty(t, post.VideoURL)
	})

	t.Run("missing media is rejected before any generation", func(t *testing.T) {
		bare := &models.Story{ID: 8, UserID: 1, Title: "무제", Image: "/srv/media/images/8.png"}
		gen := &generatorStub{
			createVideoFn: func(ctx context.Context, imagePath, audioPath, title string) (string, error) {
				t.Fatal("video synthesis must not run without complete media")
				return "", nil
			},
		}
		svc := newShareService(inMemoryShareRepo(), storyOwnedBy(1, bare), nil, nil, userWithBabies(""), gen, nil)

		_, err := svc.ShareFromStory(ctx, 8, 1)
		assertAppErrorCode(t, err, models.CodeMissingMedia)
	})

	t.Run("someone else's story reads as not found", func(t *testing.T) {
		svc := newShareService(inMemoryShareRepo(), storyOwnedBy(2, story), nil, nil, userWithBabies(""), &generatorStub{}, nil)

		_, err := svc.ShareFromStory(ctx, 7, 1)
		assertAppErrorCode(t, err, models.CodeNotFound)
	})

	t.Run("sharing the same story twice is rejected", func(t *testing.T) {
		repo := inMemoryShareRepo()
		repo.existsBySource = func(ctx context.Context, source models.ShareSource, userID uint) (bool, error) {
			return source == models.StorySource(7) && userID == 1, nil
		}
		svc := newShareService(repo, storyOwnedBy(1, story), nil, nil, userWithBabies(""), &generatorStub{}, nil)

		_, err := svc.ShareFromStory(ctx, 7, 1)
		assertAppErrorCode(t, err, models.CodeValidation)
	})
}

func TestShareService_ShareFromGallery(t *testing.T) {
	ctx := context.Background()

	gallery := &models.Gallery{
		ID: 33, StoryID: 7, UserID: 1, StoryTitle: "달님 안녕",
		ColorImageURL:    "https://cdn.test/images/color.png",
		ColoringImageURL: "https://cdn.test/images/colored.png",
	}
	galleryRepo := &galleryRepoStub{
		getByStoryAndUserFn: func(ctx context.Context, storyID, userID uint) (*models.Gallery, error) {
			if storyID != gallery.StoryID || userID != gallery.UserID {
				return nil, gorm.ErrRecordNotFound
			}
			return gallery, nil
		},
	}

	t.Run("source id is the gallery row, video stays empty", func(t *testing.T) {
		svc := newShareService(inMemoryShareRepo(), nil, galleryRepo, nil, userWithBabies(""), &generatorStub{}, nil)

		post, err := svc.ShareFromGallery(ctx, 7, 1)
		require.NoError(t, err)
		assert.Equal(t, models.ShareSourceGallery, post.SourceType)
		assert.Empty(t, post.VideoURL)
		assert.Equal(t, gallery.ColoringImageURL, post.ImageURL)
	})

	t.Run("gallery row id distinguishes the source", func(t *testing.T) {
		repo := inMemoryShareRepo()
		var seen models.ShareSource
		repo.existsBySource = func(ctx context.Context, source models.ShareSource, userID uint) (bool, error) {
			seen = source
			return false, nil
		}
		svc := newShareService(repo, nil, galleryRepo, nil, userWithBabies(""), &generatorStub{}, nil)

		_, err := svc.ShareFromGallery(ctx, 7, 1)
		require.NoError(t, err)
		assert.Equal(t, models.GallerySource(33), seen, "dedupe must key on the gallery pk, not the story id")
	})

	t.Run("entry without images is rejected", func(t *testing.T) {
		empty := &galleryRepoStub{
			getByStoryAndUserFn: func(ctx context.Context, storyID, userID uint) (*models.Gallery, error) {
				return &models.Gallery{ID: 34, StoryID: storyID, UserID: userID}, nil
			},
		}
		svc := newShareService(inMemoryShareRepo(), nil, empty, nil, userWithBabies(""), &generatorStub{}, nil)

		_, err := svc.ShareFromGallery(ctx, 9, 1)
		assertAppErrorCode(t, err, models.CodeMissingMedia)
	})
}

func TestShareService_ShareFromColoringWork(t *testing.T) {
	ctx := context.Background()

	work := &models.ColoringWork{
		ID: 55, UserID: 1, StoryTitle: "달님 안녕",
		CompletedImageURL: "https://cdn.test/coloring/55.png",
	}
	coloringRepo := &coloringRepoStub{
		getWorkByIDAndUserFn: func(ctx context.Context, id, userID uint) (*models.ColoringWork, error) {
			if id != work.ID || userID != work.UserID {
				return nil, gorm.ErrRecordNotFound
			}
			return work, nil
		},
	}

	t.Run("publishes the completed image", func(t *testing.T) {
		svc := newShareService(inMemoryShareRepo(), nil, nil, coloringRepo, userWithBabies(""), &generatorStub{}, nil)

		post, err := svc.ShareFromColoringWork(ctx, 55, 1)
		require.NoError(t, err)
		assert.Equal(t, models.ShareSourceColoringWork, post.SourceType)
		assert.Equal(t, work.CompletedImageURL, post.ImageURL)
		assert.Empty(t, post.VideoURL)
	})

	t.Run("someone else's work reads as not found", func(t *testing.T) {
		svc := newShareService(inMemoryShareRepo(), nil, nil, coloringRepo, userWithBabies(""), &generatorStub{}, nil)

		_, err := svc.ShareFromColoringWork(ctx, 55, 2)
		assertAppErrorCode(t, err, models.CodeNotFound)
	})
}

func TestShareService_DeleteSharePost(t *testing.T) {
	ctx := context.Background()

	existing := &models.SharePost{ID: 101, UserID: 1}
	repo := &shareRepoStub{
		getByIDFn: func(ctx context.Context, id uint, currentUserID uint) (*models.SharePost, error) {
			if id != existing.ID {
				return nil, gorm.ErrRecordNotFound
			}
			return existing, nil
		},
	}

	t.Run("owner deletes with cascade", func(t *testing.T) {
		var cascaded uint
		repo.deleteCascadeFn = func(ctx context.Context, id uint) error {
			cascaded = id
			return nil
		}
		svc := newShareService(repo, nil, nil, nil, nil, &generatorStub{}, nil)

		require.NoError(t, svc.DeleteSharePost(ctx, 101, 1))
		assert.Equal(t, uint(101), cascaded)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		repo.deleteCascadeFn = func(ctx context.Context, id uint) error {
			t.Fatal("cascade must not run for a non-owner")
			return nil
		}
		svc := newShareService(repo, nil, nil, nil, nil, &generatorStub{}, nil)

		err := svc.DeleteSharePost(ctx, 101, 2)
		assertAppErrorCode(t, err, models.CodeForbidden)
	})

	t.Run("missing post is not found", func(t *testing.T) {
		svc := newShareService(repo, nil, nil, nil, nil, &generatorStub{}, nil)

		err := svc.DeleteSharePost(ctx, 999, 1)
		assertAppErrorCode(t, err, models.CodeNotFound)
	})
}

func TestShareService_ToggleLike(t *testing.T) {
	ctx := context.Background()

	liked := false
	post := &models.SharePost{ID: 101, UserID: 2}
	repo := &shareRepoStub{
		getByIDFn: func(ctx context.Context, id uint, currentUserID uint) (*models.SharePost, error) {
			if id != post.ID {
				return nil, gorm.ErrRecordNotFound
			}
			view := *post
			view.Liked = liked && currentUserID == 1
			if view.Liked {
				view.LikeCount = 1
			}
			return &view, nil
		},
		toggleLikeFn: func(ctx context.Context, userID, postID uint) (bool, error) {
			liked = !liked
			return liked, nil
		},
	}
	svc := newShareService(repo, nil, nil, nil, nil, &generatorStub{}, nil)

	first, err := svc.ToggleLike(ctx, 101, 1)
	require.NoError(t, err)
	assert.True(t, first.Liked)
	assert.Equal(t, 1, first.LikeCount)

	second, err := svc.ToggleLike(ctx, 101, 1)
	require.NoError(t, err)
	assert.False(t, second.Liked)
	assert.Zero(t, second.LikeCount)

	_, err = svc.ToggleLike(ctx, 999, 1)
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func TestShareService_UserStats(t *testing.T) {
	ctx := context.Background()

	userRepo := &userRepoStub{
		getByUsernameFn: func(ctx context.Context, username string) (*models.User, error) {
			if username != "alice" {
				return nil, gorm.ErrRecordNotFound
			}
			return &models.User{ID: 1, Username: "alice", Nickname: "지우엄마"}, nil
		},
	}
	repo := &shareRepoStub{
		userStatsFn: func(ctx context.Context, userID uint) (int64, int64, error) {
			return 4, 17, nil
		},
	}
	svc := newShareService(repo, nil, nil, nil, userRepo, &generatorStub{}, nil)

	stats, err := svc.UserStats(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", stats.Username)
	assert.Equal(t, "지우엄마님", stats.DisplayName)
	assert.Equal(t, int64(4), stats.PostCount)
	assert.Equal(t, int64(17), stats.TotalLikes)

	_, err = svc.UserStats(ctx, "nobody")
	assertAppErrorCode(t, err, models.CodeNotFound)
}
