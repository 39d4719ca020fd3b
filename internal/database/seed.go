// internal/database/seed.go
package database

import (
	"context"
	"log"
	"time"

	"campus-feed/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates an empty store with the demo catalog: three users and a
// small course list, one of which is gated by an access code. Runs are
// idempotent; a store that already has courses is left alone.
func Seed(ctx context.Context, db Adapter) error {
	courses, err := db.GetAllCourses(ctx)
	if err != nil {
		return err
	}
	if len(courses) > 0 {
		return nil
	}

	now := time.Now()

	seedUsers := []struct {
		id       string
		username string
	}{
		{"1", "foodlover123"},
		{"2", "chefsdelight"},
		{"3", "tastytreats"},
	}
	for _, su := range seedUsers {
		hashed, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := &models.User{
			ID:              su.id,
			Username:        su.username,
			ProfilePicture:  "/placeholder.svg",
			HashedPassword:  string(hashed),
			Karma:           0,
			EnrolledCourses: make([]string, 0),
			CreatedAt:       now,
			LastActive:      now,
		}
		if err := db.SaveUser(ctx, user); err != nil {
			return err
		}
	}

	seedCourses := []*models.Course{
		{
			ID:           "CS101",
			Code:         "CS101",
			Name:         "Introduction to Computer Science",
			Description:  "Fundamentals of programming and computational thinking.",
			InstructorID: "2",
			AccessCode:   "1234",
		},
		{
			ID:           "MATH201",
			Code:         "MATH201",
			Name:         "Linear Algebra",
			Description:  "Vector spaces, matrices and linear transformations.",
			InstructorID: "3",
		},
		{
			ID:           "PHYS150",
			Code:         "PHYS150",
			Name:         "Mechanics",
			Description:  "Classical mechanics for science majors.",
			InstructorID: "2",
		},
	}
	for _, course := range seedCourses {
		course.MemberIDs = make([]string, 0)
		course.RequiresAccessCode = course.AccessCode != ""
		course.CreatedAt = now
		if err := db.SaveCourse(ctx, course); err != nil {
			return err
		}
	}

	log.Printf("Seeded %d users and %d courses", len(seedUsers), len(seedCourses))
	return nil
}
