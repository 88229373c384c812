package server

import (
	"fmt"

	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetArticles handles GET /blog. Lists published articles with pagination,
// filtering and ordering driven by query parameters.
func (s *Server) GetArticles(c *fiber.Ctx) error {
	p := parsePagination(c, defaultPageLimit)

	articles, total, err := s.articleService.ListPublished(c.UserContext(), service.ListArticlesInput{
		Limit:     p.Limit,
		Offset:    p.Offset,
		Author:    c.Query("author"),
		Title:     c.Query("title"),
		Tags:      splitTags(c.Query("tags")),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	})
	if err != nil {
		return models.RespondError(c, err)
	}

	message := "All published articles"
	if total == 0 {
		message = "There are no published articles"
	}

	page, pages := pageMeta(total, p)
	return models.RespondPage(c, message, articles, total, page, pages)
}

// GetMyArticles handles GET /blog/user. Lists the caller's articles in every
// state, drafts included.
func (s *Server) GetMyArticles(c *fiber.Ctx) error {
	p := parsePagination(c, defaultPageLimit)

	userID := currentUserID(c)
	articles, total, err := s.articleService.ListMine(c.UserContext(), userID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}

	user, err := s.userRepo.GetByID(c.UserContext(), userID)
	if err != nil {
		return models.RespondError(c, err)
	}

	message := fmt.Sprintf("All articles created by %s", user.FirstName)
	if total == 0 {
		message = "You have not created any articles"
	}

	page, pages := pageMeta(total, p)
	return models.RespondPage(c, message, articles, total, page, pages)
}

// GetArticle handles GET /blog/:id. Only published articles are visible on
// this path; each successful read bumps the article's read count.
func (s *Server) GetArticle(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	article, err := s.articleService.Get(c.UserContext(), id)
	if err != nil {
		return models.RespondError(c, err)
	}

	message := fmt.Sprintf("Single article post: %q", article.Title)
	return models.RespondSuccess(c, fiber.StatusOK, message, article)
}

// CreateArticle handles POST /blog
func (s *Server) CreateArticle(c *fiber.Ctx) error {
	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		State       string   `json:"state"`
		Tags        []string `json:"tags"`
		Body        string   `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	article, err := s.articleService.Create(c.UserContext(), service.CreateArticleInput{
		UserID:      currentUserID(c),
		Title:       req.Title,
		Description: req.Description,
		State:       req.State,
		Tags:        req.Tags,
		Body:        req.Body,
	})
	if err != nil {
		return models.RespondError(c, err)
	}

	message := fmt.Sprintf("%s created %q", article.User.FullName(), article.Title)
	return models.RespondSuccess(c, fiber.StatusCreated, message, article)
}

// UpdateArticle handles PATCH /blog/:id. Fields absent from the body keep
// their current values.
func (s *Server) UpdateArticle(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		State       string   `json:"state"`
		Tags        []string `json:"tags"`
		Body        string   `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	article, err := s.articleService.Update(c.UserContext(), service.UpdateArticleInput{
		UserID:      currentUserID(c),
		ArticleID:   id,
		Title:       req.Title,
		Description: req.Description,
		State:       req.State,
		Tags:        req.Tags,
		Body:        req.Body,
	})
	if err != nil {
		return models.RespondError(c, err)
	}

	message := fmt.Sprintf("%s was updated", article.Title)
	return models.RespondSuccess(c, fiber.StatusOK, message, article)
}

// DeleteArticle handles DELETE /blog/:id
func (s *Server) DeleteArticle(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	article, err := s.articleService.Delete(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return models.RespondError(c, err)
	}

	message := fmt.Sprintf("%s was deleted", article.Title)
	return models.RespondSuccess(c, fiber.StatusOK, message, nil)
}
