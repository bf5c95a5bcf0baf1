package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SAITARUN432/backendblog/internal/models"
	"github.com/SAITARUN432/backendblog/internal/observability"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const blogsCollection = "blogs"

type blogDocument struct {
	ID         bson.ObjectID     `bson:"_id,omitempty"`
	UserName   string            `bson:"userName"`
	TextArea   string            `bson:"textArea"`
	Image      *string           `bson:"image"`
	Likes      int               `bson:"likes"`
	LikedUsers []string          `bson:"likedUsers"`
	Comments   []commentDocument `bson:"comments"`
	CreatedAt  time.Time         `bson:"createdAt"`
	UpdatedAt  time.Time         `bson:"updatedAt"`
}

type commentDocument struct {
	ID        bson.ObjectID `bson:"_id"`
	User      string        `bson:"user"`
	Text      string        `bson:"text"`
	CreatedAt time.Time     `bson:"createdAt"`
}

func (d *blogDocument) toModel() *models.Blog {
	blog := &models.Blog{
		ID:         d.ID.Hex(),
		AuthorName: d.UserName,
		Body:       d.TextArea,
		ImagePath:  d.Image,
		LikedBy:    d.LikedUsers,
		Comments:   make([]models.Comment, 0, len(d.Comments)),
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
	for _, c := range d.Comments {
		blog.Comments = append(blog.Comments, models.Comment{
			ID:        c.ID.Hex(),
			Author:    c.User,
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}
	blog.Normalize()
	return blog
}

func toCommentDocument(c models.Comment) (commentDocument, error) {
	doc := commentDocument{User: c.Author, Text: c.Text, CreatedAt: c.CreatedAt}
	if c.ID == "" {
		doc.ID = bson.NewObjectID()
		return doc, nil
	}
	oid, err := bson.ObjectIDFromHex(c.ID)
	if err != nil {
		return doc, models.NewValidationError("Invalid comment id")
	}
	doc.ID = oid
	return doc, nil
}

// mongoBlogRepository stores each blog as one document with embedded comments.
type mongoBlogRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

// NewMongoBlogRepository creates a blog repository over the "blogs" collection.
func NewMongoBlogRepository(db *mongo.Database) BlogRepository {
	return &mongoBlogRepository{db: db, coll: db.Collection(blogsCollection)}
}

var returnAfter = options.FindOneAndUpdate().SetReturnDocument(options.After)

func (r *mongoBlogRepository) Create(ctx context.Context, blog *models.Blog) (err error) {
	ctx, span := observability.StartStoreSpan(ctx, "mongodb", "blog.create")
	defer func() { observability.EndSpan(span, err) }()

	now := time.Now().UTC()
	if blog.CreatedAt.IsZero() {
		blog.CreatedAt = now
	}
	blog.UpdatedAt = now
	blog.Normalize()

	doc := blogDocument{
		ID:         bson.NewObjectID(),
		UserName:   blog.AuthorName,
		TextArea:   blog.Body,
		Image:      blog.ImagePath,
		Likes:      blog.LikeCount,
		LikedUsers: blog.LikedBy,
		Comments:   make([]commentDocument, 0, len(blog.Comments)),
		CreatedAt:  blog.CreatedAt,
		UpdatedAt:  blog.UpdatedAt,
	}
	for i, c := range blog.Comments {
		cd, err := toCommentDocument(c)
		if err != nil {
			return err
		}
		doc.Comments = append(doc.Comments, cd)
		blog.Comments[i].ID = cd.ID.Hex()
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert blog: %w", err)
	}
	blog.ID = doc.ID.Hex()
	return nil
}

func (r *mongoBlogRepository) GetByID(ctx context.Context, id string) (_ *models.Blog, err error) {
	ctx, span := observability.StartStoreSpan(ctx, "mongodb", "blog.get")
	defer func() { observability.EndSpan(span, err) }()

	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.NewBlogNotFoundError(id)
	}

	var doc blogDocument
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		return nil, mongoNotFoundOr(err, id)
	}
	return doc.toModel(), nil
}

func (r *mongoBlogRepository) List(ctx context.Context) (_ []*models.Blog, err error) {
	ctx, span := observability.StartStoreSpan(ctx, "mongodb", "blog.list")
	defer func() { observability.EndSpan(span, err) }()

	cursor, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find blogs: %w", err)
	}

	var docs []blogDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode blogs: %w", err)
	}

	blogs := make([]*models.Blog, 0, len(docs))
	for i := range docs {
		blogs = append(blogs, docs[i].toModel())
	}
	return blogs, nil
}

func (r *mongoBlogRepository) UpdateFields(ctx context.Context, id string, patch models.BlogPatch) (*models.Blog, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	set := bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}
	if patch.AuthorName != nil {
		set = append(set, bson.E{Key: "userName", Value: *patch.AuthorName})
	}
	if patch.Body != nil {
		set = append(set, bson.E{Key: "textArea", Value: *patch.Body})
	}
	if patch.ImagePath != nil {
		set = append(set, bson.E{Key: "image", Value: *patch.ImagePath})
	}

	return r.findOneAndUpdate(ctx, "blog.update", id, nil, bson.D{{Key: "$set", Value: set}})
}

func (r *mongoBlogRepository) Delete(ctx context.Context, id string) (err error) {
	ctx, span := observability.StartStoreSpan(ctx, "mongodb", "blog.delete")
	defer func() { observability.EndSpan(span, err) }()

	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return models.NewBlogNotFoundError(id)
	}

	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	if res.DeletedCount == 0 {
		return models.NewBlogNotFoundError(id)
	}
	return nil
}

// ToggleLike flips membership with a single pipeline update, so concurrent
// toggles on the same document never lose an update. The user id is wrapped in
// $literal so values starting with "$" are not read as field paths.
func (r *mongoBlogRepository) ToggleLike(ctx context.Context, id, userID string) (*models.Blog, error) {
	user := bson.D{{Key: "$literal", Value: userID}}
	liked := bson.D{{Key: "$ifNull", Value: bson.A{"$likedUsers", bson.A{}}}}

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "likedUsers", Value: bson.D{{Key: "$cond", Value: bson.D{
				{Key: "if", Value: bson.D{{Key: "$in", Value: bson.A{user, liked}}}},
				{Key: "then", Value: bson.D{{Key: "$filter", Value: bson.D{
					{Key: "input", Value: liked},
					{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$this", user}}}},
				}}}},
				{Key: "else", Value: bson.D{{Key: "$concatArrays", Value: bson.A{liked, bson.A{user}}}}},
			}}}},
			{Key: "updatedAt", Value: "$$NOW"},
		}}},
		{{Key: "$set", Value: bson.D{
			{Key: "likes", Value: bson.D{{Key: "$size", Value: "$likedUsers"}}},
		}}},
	}

	return r.findOneAndUpdate(ctx, "blog.toggle_like", id, nil, pipeline)
}

func (r *mongoBlogRepository) AddComment(ctx context.Context, id string, comment models.Comment) (*models.Blog, error) {
	doc, err := toCommentDocument(comment)
	if err != nil {
		return nil, err
	}

	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "comments", Value: doc}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}},
	}
	return r.findOneAndUpdate(ctx, "blog.add_comment", id, nil, update)
}

func (r *mongoBlogRepository) EditComment(ctx context.Context, id, commentID, text string) (*models.Blog, error) {
	cid, err := bson.ObjectIDFromHex(commentID)
	if err != nil {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, models.NewCommentNotFoundError(commentID)
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "comments.$.text", Value: text},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}}}
	blog, err := r.findOneAndUpdate(ctx, "blog.edit_comment", id, bson.D{{Key: "comments._id", Value: cid}}, update)
	if errors.Is(err, models.ErrBlogNotFound) {
		// The positional filter also misses when only the comment is absent.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, models.NewCommentNotFoundError(commentID)
	}
	return blog, err
}

func (r *mongoBlogRepository) DeleteComment(ctx context.Context, id, commentID string) (*models.Blog, error) {
	cid, err := bson.ObjectIDFromHex(commentID)
	if err != nil {
		return r.GetByID(ctx, id)
	}

	update := bson.D{{Key: "$pull", Value: bson.D{
		{Key: "comments", Value: bson.D{{Key: "_id", Value: cid}}},
	}}}
	return r.findOneAndUpdate(ctx, "blog.delete_comment", id, nil, update)
}

func (r *mongoBlogRepository) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, readpref.Primary())
}

// findOneAndUpdate applies update to the blog with id (narrowed by extra, if
// any) and returns the document as it is after the update.
func (r *mongoBlogRepository) findOneAndUpdate(ctx context.Context, op, id string, extra bson.D, update any) (_ *models.Blog, err error) {
	ctx, span := observability.StartStoreSpan(ctx, "mongodb", op)
	defer func() { observability.EndSpan(span, err) }()

	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.NewBlogNotFoundError(id)
	}

	filter := append(bson.D{{Key: "_id", Value: oid}}, extra...)

	var doc blogDocument
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, returnAfter).Decode(&doc); err != nil {
		return nil, mongoNotFoundOr(err, id)
	}
	return doc.toModel(), nil
}

func mongoNotFoundOr(err error, id string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.NewBlogNotFoundError(id)
	}
	return err
}
