// internal/database/course_repository.go
package database

import (
	"context"
	"time"

	"campus-feed/internal/models"
	"campus-feed/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CourseDocument represents the MongoDB schema for a course. The access code
// is stored as-is; it is a shared course secret, not a user credential.
type CourseDocument struct {
	ID           string    `bson:"_id"`
	Code         string    `bson:"code"`
	Name         string    `bson:"name"`
	Description  string    `bson:"description"`
	InstructorID string    `bson:"instructorid"`
	MemberIDs    []string  `bson:"memberids"`
	AccessCode   string    `bson:"accesscode,omitempty"`
	CreatedAt    time.Time `bson:"createdat"`
}

func courseToDocument(course *models.Course) *CourseDocument {
	return &CourseDocument{
		ID:           course.ID,
		Code:         course.Code,
		Name:         course.Name,
		Description:  course.Description,
		InstructorID: course.InstructorID,
		MemberIDs:    course.MemberIDs,
		AccessCode:   course.AccessCode,
		CreatedAt:    course.CreatedAt,
	}
}

func documentToCourse(doc *CourseDocument) *models.Course {
	members := doc.MemberIDs
	if members == nil {
		members = make([]string, 0)
	}
	return &models.Course{
		ID:                 doc.ID,
		Code:               doc.Code,
		Name:               doc.Name,
		Description:        doc.Description,
		InstructorID:       doc.InstructorID,
		MemberIDs:          members,
		AccessCode:         doc.AccessCode,
		RequiresAccessCode: doc.AccessCode != "",
		CreatedAt:          doc.CreatedAt,
	}
}

// SaveCourse creates or updates a course in MongoDB, member set included.
func (m *MongoDB) SaveCourse(ctx context.Context, course *models.Course) error {
	doc := courseToDocument(course)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": course.ID}
	update := bson.M{"$set": doc}

	_, err := m.Courses.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "Failed to save course", err)
	}
	return nil
}

// GetCourse retrieves a course by its ID.
func (m *MongoDB) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	var doc CourseDocument

	err := m.Courses.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewNotFoundError("Course", id)
	}
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "Failed to get course", err)
	}

	return documentToCourse(&doc), nil
}

// GetAllCourses returns every stored course.
func (m *MongoDB) GetAllCourses(ctx context.Context) ([]*models.Course, error) {
	cursor, err := m.Courses.Find(ctx, bson.M{})
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "Failed to list courses", err)
	}
	defer cursor.Close(ctx)

	courses := make([]*models.Course, 0)
	for cursor.Next(ctx) {
		var doc CourseDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, utils.NewAppError(utils.ErrDatabase, "Failed to decode course", err)
		}
		courses = append(courses, documentToCourse(&doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "Cursor error while listing courses", err)
	}

	return courses, nil
}
