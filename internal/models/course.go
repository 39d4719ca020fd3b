package models

import "time"

type Course struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	InstructorID string    `json:"instructorId"`
	MemberIDs    []string  `json:"members"`
	CreatedAt    time.Time `json:"createdAt"`

	// AccessCode is the shared secret gating enrollment. Empty means the
	// course is open. The secret itself never leaves the backend; callers
	// only see RequiresAccessCode so they know to prompt before joining.
	AccessCode         string `json:"-"`
	RequiresAccessCode bool   `json:"requiresAccessCode"`
}
