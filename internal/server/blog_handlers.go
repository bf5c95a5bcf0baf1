package server

import (
	"errors"

	"github.com/SAITARUN432/backendblog/internal/models"
	"github.com/SAITARUN432/backendblog/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListBlogs handles GET /api/blogs
func (s *Server) ListBlogs(c *fiber.Ctx) error {
	blogs, err := s.blogService.ListBlogs(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(blogs)
}

// GetBlog handles GET /api/blogs/:id
func (s *Server) GetBlog(c *fiber.Ctx) error {
	blog, err := s.blogService.GetBlog(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(blog)
}

// CreateBlog handles POST /api/blogs. The body is multipart with an optional
// "image" file; JSON and urlencoded bodies are accepted without an image.
func (s *Server) CreateBlog(c *fiber.Ctx) error {
	var req struct {
		UserName string `json:"userName" form:"userName"`
		TextArea string `json:"textArea" form:"textArea"`
	}
	if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return invalidBody(c)
	}

	var imagePath *string
	if file, err := c.FormFile("image"); err == nil {
		src, err := file.Open()
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Unable to read uploaded file"))
		}
		defer func() { _ = src.Close() }()

		path, err := s.media.Save(c.UserContext(), file.Filename, src)
		if err != nil {
			return respondServiceError(c, err)
		}
		imagePath = &path
	}

	blog, err := s.blogService.CreateBlog(c.UserContext(), service.CreateBlogInput{
		AuthorName: req.UserName,
		Body:       req.TextArea,
		ImagePath:  imagePath,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(blog)
}

// UpdateBlog handles PUT /api/blogs/update/:id
func (s *Server) UpdateBlog(c *fiber.Ctx) error {
	var patch models.BlogPatch
	if err := c.BodyParser(&patch); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return invalidBody(c)
	}

	blog, err := s.blogService.UpdateBlog(c.UserContext(), service.UpdateBlogInput{
		BlogID: c.Params("id"),
		Patch:  patch,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(blog)
}

// DeleteBlog handles DELETE /api/blogs/delete/:id
func (s *Server) DeleteBlog(c *fiber.Ctx) error {
	if err := s.blogService.DeleteBlog(c.UserContext(), c.Params("id")); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Blog deleted successfully"})
}

// ToggleLike handles PUT /api/blogs/:id/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	var req struct {
		UserID string `json:"userId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	blog, _, err := s.blogService.ToggleLike(c.UserContext(), service.ToggleLikeInput{
		BlogID: c.Params("id"),
		UserID: req.UserID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(blog)
}

// AddComment handles POST /api/blogs/:id/comment
func (s *Server) AddComment(c *fiber.Ctx) error {
	var req struct {
		User string `json:"user"`
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	blog, err := s.blogService.AddComment(c.UserContext(), service.AddCommentInput{
		BlogID: c.Params("id"),
		Author: req.User,
		Text:   req.Text,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(blog)
}

// EditComment handles PUT /api/blogs/:id/comment/:commentId
func (s *Server) EditComment(c *fiber.Ctx) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	blog, err := s.blogService.EditComment(c.UserContext(), service.EditCommentInput{
		BlogID:    c.Params("id"),
		CommentID: c.Params("commentId"),
		Text:      req.Text,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(blog)
}

// DeleteComment handles DELETE /api/blogs/:id/comment/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	blog, err := s.blogService.DeleteComment(c.UserContext(), service.DeleteCommentInput{
		BlogID:    c.Params("id"),
		CommentID: c.Params("commentId"),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(blog)
}
