// Command main runs the database seeder for Storynest.
package main

import (
	"flag"
	"log"

	"storynest/internal/config"
	"storynest/internal/database"
	"storynest/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numStories := flag.Int("stories", 80, "Number of stories to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Storynest database seeder")
	log.Printf("Target: %d users, %d stories, clean=%v", *numUsers, *numStories, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumUsers:    *numUsers,
		NumStories:  *numStories,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done. Every seeded account uses the password: password123")
}
