package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"storynest/internal/models"
	"storynest/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedShareableStory(t *testing.T, s *Server, userID uint) *models.Story {
	t.Helper()
	story := &models.Story{
		UserID:       userID,
		Theme:        "adventure",
		Voice:        "mom",
		Title:        "토끼의 모험",
		Content:      "옛날 옛적에 용감한 토끼가 살았어요.",
		Image:        "https://cdn.test/images/1/story-1.png",
		VoiceContent: "https://cdn.test/voices/1/story-1.mp3",
	}
	require.NoError(t, s.db.Create(story).Error)
	return story
}

func decodeSharePost(t *testing.T, resp *http.Response) service.SharePostResponse {
	t.Helper()
	var post service.SharePostResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&post))
	return post
}

func decodeSharePosts(t *testing.T, resp *http.Response) []service.SharePostResponse {
	t.Helper()
	var posts []service.SharePostResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&posts))
	return posts
}

func TestShareStoryFlow(t *testing.T) {
	s, app := newTestServer(t)
	alice := createTestUser(t, s, "alice", "지우엄마")
	bob := createTestUser(t, s, "bob", "준호아빠")
	aliceAuth := authHeader(t, s, alice)
	bobAuth := authHeader(t, s, bob)

	story := seedShareableStory(t, s, alice.ID)

	resp := doRequest(t, app, jsonRequest(http.MethodPost,
		fmt.Sprintf("/api/share/story/%d", story.ID), "", aliceAuth))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	post := decodeSharePost(t, resp)
	assert.Equal(t, "지우엄마님", post.DisplayName)
	assert.Equal(t, "토끼의 모험", post.StoryTitle)
	assert.Equal(t, models.ShareSourceStory, post.SourceType)
	assert.Contains(t, post.VideoURL, "https://cdn.test/videos/")
	assert.True(t, post.IsOwner)

	t.Run("sharing the same story twice is rejected", func(t *testing.T) {
		resp := doRequest(t, app, jsonRequest(http.MethodPost,
			fmt.Sprintf("/api/share/story/%d", story.ID), "", aliceAuth))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("anonymous feed read", func(t *testing.T) {
		resp := doRequest(t, app, jsonRequest(http.MethodGet, "/api/share/posts", "", ""))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		posts := decodeSharePosts(t, resp)
		require.Len(t, posts, 1)
		assert.False(t, posts[0].IsOwner)
		assert.False(t, posts[0].Liked)
	})

	t.Run("feed read as the author flags ownership", func(t *testing.T) {
		resp := doRequest(t, app, jsonRequest(http.MethodGet, "/api/share/posts", "", aliceAuth))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		posts := decodeSharePosts(t, resp)
		require.Len(t, posts, 1)
		assert.True(t, posts[0].IsOwner)
	})

	t.Run("like toggles on and off", func(t *testing.T) {
		target := fmt.Sprintf("/api/share/posts/%d/like", post.ID)

		resp := doRequest(t, app, jsonRequest(http.MethodPost, target, "", bobAuth))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		liked := decodeSharePost(t, resp)
		assert.True(t, liked.Liked)
		assert.Equal(t, 1, liked.LikeCount)

		resp = doRequest(t, app, jsonRequest(http.MethodPost, target, "", bobAuth))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		unliked := decodeSharePost(t, resp)
		assert.False(t, unliked.Liked)
		assert.Equal(t, 0, unliked.LikeCount)
	})

	t.Run("like requires authentication", func(t *testing.T) {
		resp := doRequest(t, app, jsonRequest(http.MethodPost,
			fmt.Sprintf("/api/share/posts/%d/like", post.ID), "", ""))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("only the author can delete", func(t *testing.T) {
		target := fmt.Sprintf("/api/share/posts/%d", post.ID)

		resp := doRequest(t, app, jsonRequest(http.MethodDelete, target, "", bobAuth))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp = doRequest(t, app, jsonRequest(http.MethodDelete, target, "", aliceAuth))
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = doRequest(t, app, jsonRequest(http.MethodGet, target, "", ""))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestShareStory_MissingMedia(t *testing.T) {
	s, app := newTestServer(t)
	alice := createTestUser(t, s, "alice", "지우엄마")
	auth := authHeader(t, s, alice)

	story := &models.Story{
		UserID:  alice.ID,
		Theme:   "adventure",
		Title:   "그림 없는 이야기",
		Content: "본문",
	}
	require.NoError(t, s.db.Create(story).Error)

	resp := doRequest(t, app, jsonRequest(http.MethodPost,
		fmt.Sprintf("/api/share/story/%d", story.ID), "", auth))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, models.CodeMissingMedia, body["code"])
}

func TestShareStory_SomeoneElsesStory(t *testing.T) {
	s, app := newTestServer(t)
	alice := createTestUser(t, s, "alice", "지우엄마")
	bob := createTestUser(t, s, "bob", "준호아빠")
	story := seedShareableStory(t, s, alice.ID)

	resp := doRequest(t, app, jsonRequest(http.MethodPost,
		fmt.Sprintf("/api/share/story/%d", story.ID), "", authHeader(t, s, bob)))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestShareGalleryImage(t *testing.T) {
	s, app := newTestServer(t)
	alice := createTestUser(t, s, "alice", "지우엄마")
	auth := authHeader(t, s, alice)

	story := seedShareableStory(t, s, alice.ID)
	gallery := &models.Gallery{
		StoryID:          story.ID,
		UserID:           alice.ID,
		StoryTitle:       story.Title,
		ColorImageURL:    story.Image,
		ColoringImageURL: "https://cdn.test/coloring/colored.png",
	}
	require.NoError(t, s.db.Create(gallery).Error)

	resp := doRequest(t, app, jsonRequest(http.MethodPost,
		fmt.Sprintf("/api/share/gallery/%d", story.ID), "", auth))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	post := decodeSharePost(t, resp)
	assert.Equal(t, models.ShareSourceGallery, post.SourceType)
	assert.Equal(t, "https://cdn.test/coloring/colored.png", post.ImageURL)
	assert.Empty(t, post.VideoURL)
}

func TestGetUserShareStats(t *testing.T) {
	s, app := newTestServer(t)
	alice := createTestUser(t, s, "alice", "지우엄마")
	auth := authHeader(t, s, alice)

	story := seedShareableStory(t, s, alice.ID)
	resp := doRequest(t, app, jsonRequest(http.MethodPost,
		fmt.Sprintf("/api/share/story/%d", story.ID), "", auth))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doRequest(t, app, jsonRequest(http.MethodGet, "/api/share/users/alice/stats", "", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats models.UserShareStats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, "alice", stats.Username)
	assert.Equal(t, "지우엄마님", stats.DisplayName)
	assert.Equal(t, int64(1), stats.PostCount)

	t.Run("unknown user", func(t *testing.T) {
		resp := doRequest(t, app, jsonRequest(http.MethodGet, "/api/share/users/ghost/stats", "", ""))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
