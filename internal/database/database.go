// internal/database/database.go
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"campus-feed/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Adapter is the storage abstraction the actors depend on. The actors own
// the working set in memory and write through to an Adapter, so swapping the
// backing store never touches the mutation logic. MongoDB backs production;
// the in-memory adapter backs tests and local runs without a MongoDB URI.
type Adapter interface {
	// Users
	SaveUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)

	// Courses
	SaveCourse(ctx context.Context, course *models.Course) error
	GetCourse(ctx context.Context, id string) (*models.Course, error)
	GetAllCourses(ctx context.Context) ([]*models.Course, error)

	// Posts
	SavePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id string) (*models.Post, error)
	DeletePost(ctx context.Context, id string) error
	GetAllPosts(ctx context.Context) ([]*models.Post, error)

	// Comments
	SaveComment(ctx context.Context, comment *models.Comment) error
	DeleteComment(ctx context.Context, id string) error
	DeletePostComments(ctx context.Context, postID string) error
	GetAllComments(ctx context.Context) ([]*models.Comment, error)
}

type MongoDB struct {
	Client   *mongo.Client
	Users    *mongo.Collection
	Posts    *mongo.Collection
	Comments *mongo.Collection
	Courses  *mongo.Collection
}

func NewMongoDB(uri string, dbName string) (*MongoDB, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	// Ping the database to verify connection
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	log.Println("Successfully connected to MongoDB!")

	db := client.Database(dbName)
	return &MongoDB{
		Client:   client,
		Users:    db.Collection("users"),
		Posts:    db.Collection("posts"),
		Comments: db.Collection("comments"),
		Courses:  db.Collection("courses"),
	}, nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
