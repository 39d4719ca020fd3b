// internal/database/user_repository.go
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

// UserDocument represents the MongoDB schema for a user.
type UserDocument struct {
	ID              string    `bson:"_id"`
	Username        string    `bson:"username"`
	ProfilePicture  string    `bson:"profilepicture"`
	HashedPassword  string    `bson:"hashedpassword"`
	Karma           int       `bson:"karma"`
	EnrolledCourses []string  `bson:"enrolledcourses"`
	CreatedAt       time.Time `bson:"createdat"`
	LastActive      time.Time `bson:"lastactive"`
}

func userToDocument(user *models.User) *UserDocument {
	return &UserDocument{
		ID:              user.ID,
		Username:        user.Username,
		ProfilePicture:  user.ProfilePicture,
		HashedPassword:  user.HashedPassword,
		Karma:           user.Karma,
		EnrolledCourses: user.EnrolledCourses,
		CreatedAt:       user.CreatedAt,
		LastActive:      user.LastActive,
	}
}

func documentToUser(doc *UserDocument) *models.User {
	enrolled := doc.EnrolledCourses
	if enrolled == nil {
		enrolled = make([]string, 0)
	}
	return &models.User{
		ID:              doc.ID,
		Username:        doc.Username,
		ProfilePicture:  doc.ProfilePicture,
		HashedPassword:  doc.HashedPassword,
		Karma:           doc.Karma,
		EnrolledCourses: enrolled,
		CreatedAt:       doc.CreatedAt,
		LastActive:      doc.LastActive,
	}
}

// SaveUser creates or updates a user in MongoDB.
func (m *MongoDB) SaveUser(ctx context.Context, user *models.User) error {
	doc := userToDocument(user)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": user.ID}
	update := bson.M{"$set": doc}

	_, err := m.Users.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "Failed to save user", err)
	}
	return nil
}

// GetUser retrieves a user by their ID.
func (m *MongoDB) GetUser(ctx context.Context, id string) (*models.User, error) {
	var doc UserDocument

	err := m.Users.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewNotFoundError("User", id)
	}
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "Failed to get user", err)
	}

	return documentToUser(&doc), nil
}

// GetUserByUsername retrieves a user by their unique username.
func (m *MongoDB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var doc UserDocument

	err := m.Users.FindOne(ctx, bson.M{"username": username}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewNotFoundError("User", username)
	}
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "Failed to get user", err)
	}

	return documentToUser(&doc), nil
}

// GetAllUsers returns every stored user for the directory actor's warm-up.
func (m *MongoDB) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	cursor, err := m.Users.Find(ctx, bson.M{})
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "Failed to list users", err)
	}
	defer cursor.Close(ctx)

	users := make([]*models.User, 0)
	for cursor.Next(ctx) {
		var doc UserDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, utils.NewAppError(utils.ErrDatabase, "Failed to decode user", err)
		}
		users = append(users, documentToUser(&doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "Cursor error while listing users", err)
	}

	return users, nil
}
