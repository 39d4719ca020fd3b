package models

import "time"

type User struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	ProfilePicture  string    `json:"profilePicture"`
	HashedPassword  string    `json:"-"`
	Karma           int       `json:"karma"`
	EnrolledCourses []string  `json:"enrolledCourses"`
	CreatedAt       time.Time `json:"createdAt"`
	LastActive      time.Time `json:"lastActive"`
}
