package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cppla/secureapi/models"
)

// PostRepository reads and writes post rows.
type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create inserts post in a single transaction; ID and CreatedAt are filled in on return.
// It returns ErrNotFound when the author row no longer exists.
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(post).Error
	})
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// List returns every post ordered by id.
func (r *PostRepository) List(ctx context.Context) ([]models.Post, error) {
	posts := []models.Post{}
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) FindByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, notFound(err, "find post")
	}
	return &post, nil
}

// DeleteOwned removes post id on behalf of userID. The lookup, the ownership check
// and the delete share one transaction. A post that disappears between the check
// and the delete counts as deleted.
func (r *PostRepository) DeleteOwned(ctx context.Context, id, userID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			return notFound(err, "find post")
		}
		if post.AuthorID != userID {
			return ErrNotOwner
		}
		if err := tx.Where("id = ? AND author_id = ?", id, userID).Delete(&models.Post{}).Error; err != nil {
			return fmt.Errorf("delete post: %w", err)
		}
		return nil
	})
}
