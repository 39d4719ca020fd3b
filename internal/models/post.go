package models

import "time"

type Post struct {
	ID        string     `json:"id"`
	AuthorID  string     `json:"userId"`
	CourseID  string     `json:"courseId,omitempty"`
	Content   string     `json:"content"`
	Image     string     `json:"image,omitempty"`
	Likes     int        `json:"likes"`
	Comments  []*Comment `json:"comments"`
	CreatedAt time.Time  `json:"createdAt"`
}
