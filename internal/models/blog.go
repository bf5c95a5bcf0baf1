// Package models contains data structures for the application's domain models.
package models

import (
	"slices"
	"time"
)

// Blog is the aggregate root: a post together with the comments it owns and the
// set of users who liked it. JSON names match the documents the API has always served.
type Blog struct {
	ID         string  `gorm:"primaryKey;type:varchar(36)" json:"_id"`
	AuthorName string  `json:"userName"`
	Body       string  `gorm:"type:text" json:"textArea"`
	ImagePath  *string `json:"image"`
	// LikeCount mirrors len(LikedBy); Normalize restores it after any mutation.
	LikeCount int       `gorm:"column:likes;not null;default:0" json:"likes"`
	LikedBy   []string  `gorm:"column:liked_users;serializer:json;type:text" json:"likedUsers"`
	Comments  []Comment `gorm:"serializer:json;type:text" json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Comment is owned by exactly one Blog and has no identity outside it.
type Comment struct {
	ID        string    `json:"_id"`
	Author    string    `json:"user"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// BlogPatch lists the fields a client may overwrite. Nil fields are left untouched.
type BlogPatch struct {
	AuthorName *string `json:"userName" form:"userName"`
	Body       *string `json:"textArea" form:"textArea"`
	ImagePath  *string `json:"image" form:"image"`
}

// IsEmpty reports whether the patch would change nothing.
func (p BlogPatch) IsEmpty() bool {
	return p.AuthorName == nil && p.Body == nil && p.ImagePath == nil
}

// NewBlog returns a blog with no likes and no comments. Content is not validated.
func NewBlog(authorName, body string, imagePath *string) *Blog {
	return &Blog{
		AuthorName: authorName,
		Body:       body,
		ImagePath:  imagePath,
		LikedBy:    []string{},
		Comments:   []Comment{},
	}
}

// Normalize re-establishes LikeCount == len(LikedBy) and replaces nil slices
// so the blog always serializes with empty arrays.
func (b *Blog) Normalize() {
	if b.LikedBy == nil {
		b.LikedBy = []string{}
	}
	if b.Comments == nil {
		b.Comments = []Comment{}
	}
	b.LikeCount = len(b.LikedBy)
}

// HasLiked reports whether userID is in the liked-by set.
func (b *Blog) HasLiked(userID string) bool {
	return slices.Contains(b.LikedBy, userID)
}

// ToggleLike flips userID's membership in LikedBy and keeps LikeCount in sync.
// It returns true when the call added a like.
func (b *Blog) ToggleLike(userID string) bool {
	liked := !b.HasLiked(userID)
	if liked {
		b.LikedBy = append(b.LikedBy, userID)
	} else {
		b.LikedBy = slices.DeleteFunc(b.LikedBy, func(id string) bool { return id == userID })
	}
	b.Normalize()
	return liked
}

// Apply overwrites the fields present in patch.
func (b *Blog) Apply(patch BlogPatch) {
	if patch.AuthorName != nil {
		b.AuthorName = *patch.AuthorName
	}
	if patch.Body != nil {
		b.Body = *patch.Body
	}
	if patch.ImagePath != nil {
		b.ImagePath = patch.ImagePath
	}
}

// AddComment appends c, preserving insertion order.
func (b *Blog) AddComment(c Comment) {
	b.Comments = append(b.Comments, c)
}

// FindComment returns the comment with the given id, or nil.
func (b *Blog) FindComment(commentID string) *Comment {
	for i := range b.Comments {
		if b.Comments[i].ID == commentID {
			return &b.Comments[i]
		}
	}
	return nil
}

// EditComment replaces the text of a comment. ID, author and creation time are kept.
func (b *Blog) EditComment(commentID, text string) error {
	c := b.FindComment(commentID)
	if c == nil {
		return NewCommentNotFoundError(commentID)
	}
	c.Text = text
	return nil
}

// RemoveComment drops the matching comment and reports whether one was removed.
// An unknown id leaves the blog unchanged.
func (b *Blog) RemoveComment(commentID string) bool {
	before := len(b.Comments)
	b.Comments = slices.DeleteFunc(b.Comments, func(c Comment) bool { return c.ID == commentID })
	return len(b.Comments) != before
}
