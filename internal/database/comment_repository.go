// internal/database/comment_repository.go
package database

import (
	"context"
	"time"

	"campus-feed/internal/models"
	"campus-feed/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CommentDocument represents the MongoDB schema for a comment.
type CommentDocument struct {
	ID        string    `bson:"_id"`
	PostID    string    `bson:"postid"`
	AuthorID  string    `bson:"authorid"`
	Content   string    `bson:"content"`
	CreatedAt time.Time `bson:"createdat"`
}

func commentToDocument(comment *models.Comment) *CommentDocument {
	return &CommentDocument{
		ID:        comment.ID,
		PostID:    comment.PostID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
}

func documentToComment(doc *CommentDocument) *models.Comment {
	return &models.Comment{
		ID:        doc.ID,
		PostID:    doc.PostID,
		AuthorID:  doc.AuthorID,
		Content:   doc.Content,
		CreatedAt: doc.CreatedAt,
	}
}

// SaveComment creates or updates a comment in MongoDB.
func (m *MongoDB) SaveComment(ctx context.Context, comment *models.Comment) error {
	doc := commentToDocument(comment)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": comment.ID}
	update := bson.M{"$set": doc}

	_, err := m.Comments.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "Failed to save comment", err)
	}
	return nil
}

// DeleteComment removes a single comment document.
func (m *MongoDB) DeleteComment(ctx context.Context, id string) error {
	result, err := m.Comments.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "Failed to delete comment", err)
	}
	if result.DeletedCount == 0 {
		return utils.NewNotFoundError("Comment", id)
	}
	return nil
}

// DeletePostComments removes every comment under a post, the cascade half of
// a post deletion.
func (m *MongoDB) DeletePostComments(ctx context.Context, postID string) error {
	_, err := m.Comments.DeleteMany(ctx, bson.M{"postid": postID})
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "Failed to delete post comments", err)
	}
	return nil
}

// GetAllComments returns every stored comment for the content actor's warm-up.
func (m *MongoDB) GetAllComments(ctx context.Context) ([]*models.Comment, error) {
	// Sort by creation time so the actor rebuilds each post's comment
	// sequence in insertion order.
	opts := options.Find().SetSort(bson.D{{Key: "createdat", Value: 1}})
	cursor, err := m.Comments.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "Failed to list comments", err)
	}
	defer cursor.Close(ctx)

	comments := make([]*models.Comment, 0)
	for cursor.Next(ctx) {
		var doc CommentDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, utils.NewAppError(utils.ErrDatabase, "Failed to decode comment", err)
		}
		comments = append(comments, documentToComment(&doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "Cursor error while listing comments", err)
	}

	return comments, nil
}
