package seed

import (
	"fmt"
	"log"

	"storynest/internal/models"

	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers    int
	NumStories  int
	ShouldClean bool
}

// Seed populates the database with demo families, stories and a share feed.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding %d users and %d stories...", opts.NumUsers, opts.NumStories)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Printf("warning: could not clear existing data: %v", err)
		}
	}

	f := NewFactory(db)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		if _, err := f.CreateBaby(user); err != nil {
			return fmt.Errorf("create baby: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("created %d users with baby profiles", len(users))

	var posts []*models.SharePost
	for i := 0; i < opts.NumStories; i++ {
		user := users[f.rand.Intn(len(users))]
		story, err := f.CreateStory(user)
		if err != nil {
			return fmt.Errorf("create story: %w", err)
		}
		if story.Image == "" {
			continue
		}
		if _, err := f.CreateGalleryEntry(user, story); err != nil {
			return fmt.Errorf("create gallery entry: %w", err)
		}

		// Roughly half the illustrated stories get shared to the feed.
		if f.rand.Float32() < 0.5 {
			post, err := f.CreateSharePost(user, story)
			if err != nil {
				return fmt.Errorf("create share post: %w", err)
			}
			posts = append(posts, post)
		}
	}
	log.Printf("created %d stories, %d shared to the feed", opts.NumStories, len(posts))

	likes, comments := 0, 0
	for _, post := range posts {
		for _, user := range users {
			if user.ID == post.UserID {
				continue
			}
			if f.rand.Float32() < 0.3 {
				if err := f.CreateLike(user, post); err == nil {
					likes++
				}
			}
			if f.rand.Float32() < 0.15 {
				if _, err := f.CreateComment(user, post); err == nil {
					comments++
				}
			}
		}
	}
	log.Printf("created %d likes and %d comments", likes, comments)

	log.Println("Seeding completed")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("clearing existing data...")
	sql := `TRUNCATE TABLE comments, share_likes, share_posts, coloring_works, coloring_templates, galleries, stories, babies, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}
