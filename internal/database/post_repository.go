// internal/database/post_repository.go
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

// PostDocument represents the MongoDB schema for a post. Comments live in
// their own collection, so a post document never embeds them.
type PostDocument struct {
	ID        string    `bson:"_id"`
	AuthorID  string    `bson:"authorid"`
	CourseID  string    `bson:"courseid,omitempty"`
	Content   string    `bson:"content"`
	Image     string    `bson:"image,omitempty"`
	Likes     int       `bson:"likes"`
	CreatedAt time.Time `bson:"createdat"`
}

func postToDocument(post *models.Post) *PostDocument {
	return &PostDocument{
		ID:        post.ID,
		AuthorID:  post.AuthorID,
		CourseID:  post.CourseID,
		Content:   post.Content,
		Image:     post.Image,
		Likes:     post.Likes,
		CreatedAt: post.CreatedAt,
	}
}

func documentToPost(doc *PostDocument) *models.Post {
	return &models.Post{
		ID:        doc.ID,
		AuthorID:  doc.AuthorID,
		CourseID:  doc.CourseID,
		Content:   doc.Content,
		Image:     doc.Image,
		Likes:     doc.Likes,
		Comments:  make([]*models.Comment, 0),
		CreatedAt: doc.CreatedAt,
	}
}

// SavePost creates or updates a post in MongoDB.
func (m *MongoDB) SavePost(ctx context.Context, post *models.Post) error {
	doc := postToDocument(post)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": post.ID}
	update := bson.M{"$set": doc}

	_, err := m.Posts.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "Failed to save post", err)
	}
	return nil
}

// GetPost retrieves a post by its ID.
func (m *MongoDB) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var doc PostDocument

	err := m.Posts.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewNotFoundError("Post", id)
	}
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "Failed to get post", err)
	}

	return documentToPost(&doc), nil
}

// DeletePost removes a post document. The caller is responsible for cascading
// the comment deletion via DeletePostComments.
func (m *MongoDB) DeletePost(ctx context.Context, id string) error {
	result, err := m.Posts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "Failed to delete post", err)
	}
	if result.DeletedCount == 0 {
		return utils.NewNotFoundError("Post", id)
	}
	return nil
}

// GetAllPosts returns every stored post, used by the content actor to warm
// its working set on start.
func (m *MongoDB) GetAllPosts(ctx context.Context) ([]*models.Post, error) {
	cursor, err := m.Posts.Find(ctx, bson.M{})
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "Failed to list posts", err)
	}
	defer cursor.Close(ctx)

	posts := make([]*models.Post, 0)
	for cursor.Next(ctx) {
		var doc PostDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, utils.NewAppError(utils.ErrDatabase, "Failed to decode post", err)
		}
		posts = append(posts, documentToPost(&doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "Cursor error while listing posts", err)
	}

	return posts, nil
}
