package service

import (
	"context"
	"log/slog"
	"strings"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// wordsPerMinute is the assumed reading speed for the reading_time estimate.
const wordsPerMinute = 200

// ArticleService owns the article lifecycle and its authorship rules.
type ArticleService struct {
	articleRepo repository.ArticleRepository
	userRepo    repository.UserRepository
}

// CreateArticleInput carries the fields for creating an article. UserID is
// the authenticated caller, never taken from the request body.
type CreateArticleInput struct {
	UserID      uint
	Title       string
	Description string
	State       string
	Tags        []string
	Body        string
}

// ListArticlesInput narrows the public article listing.
type ListArticlesInput struct {
	Limit     int
	Offset    int
	Author    string
	Title     string
	Tags      []string
	SortBy    string
	SortOrder string
}

// UpdateArticleInput is a partial update; empty strings and nil tags mean
// "keep the current value".
type UpdateArticleInput struct {
	UserID      uint
	ArticleID   uint
	Title       string
	Description string
	State       string
	Tags        []string
	Body        string
}

// NewArticleService creates a new article service.
func NewArticleService(articleRepo repository.ArticleRepository, userRepo repository.UserRepository) *ArticleService {
	return &ArticleService{
		articleRepo: articleRepo,
		userRepo:    userRepo,
	}
}

// ListPublished returns published articles matching all supplied filters,
// plus the total match count for pagination.
func (s *ArticleService) ListPublished(ctx context.Context, in ListArticlesInput) ([]*models.Article, int64, error) {
	filter := repository.ArticleFilter{
		State:         models.StatePublished,
		Author:        in.Author,
		TitleContains: in.Title,
		Tags:          in.Tags,
		SortBy:        in.SortBy,
		SortOrder:     in.SortOrder,
	}

	total, err := s.articleRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	articles, err := s.articleRepo.List(ctx, filter, in.Limit, in.Offset)
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// ListMine returns the caller's own articles in every state.
func (s *ArticleService) ListMine(ctx context.Context, userID uint, limit, offset int) ([]*models.Article, int64, error) {
	if userID == 0 {
		return nil, 0, models.NewUnauthorizedError("You need to be logged in to list your articles")
	}

	filter := repository.ArticleFilter{UserID: userID}
	total, err := s.articleRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	articles, err := s.articleRepo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// Get returns a single published article and bumps its read count. Drafts
// are not found on this path, including for their owner. The increment is
// best-effort: a persist failure is logged and the read still succeeds, so
// read_count may undercount.
func (s *ArticleService) Get(ctx context.Context, id uint) (*models.Article, error) {
	article, err := s.articleRepo.GetPublishedByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.articleRepo.IncrementReadCount(ctx, id); err != nil {
		middleware.Logger.WarnContext(ctx, "read count increment failed",
			slog.Uint64("article_id", uint64(id)),
			slog.String("error", err.Error()),
		)
	} else {
		article.ReadCount++
		middleware.ArticleReads.Inc()
	}
	return article, nil
}

// Create validates and persists a new article owned by the caller.
func (s *ArticleService) Create(ctx context.Context, in CreateArticleInput) (*models.Article, error) {
	if in.UserID == 0 {
		return nil, models.NewUnauthorizedError("You need to be logged in to create an article")
	}
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if in.Body == "" {
		return nil, models.NewValidationError("Body is required")
	}
	state := in.State
	if state == "" {
		state = models.StateDraft
	}
	if !models.ValidState(state) {
		return nil, models.NewValidationError("State must be either draft or published")
	}

	exists, err := s.articleRepo.TitleExists(ctx, in.Title)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.NewConflictError("Article with that title already exists")
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	article := &models.Article{
		Title:       in.Title,
		Description: in.Description,
		UserID:      user.ID,
		State:       state,
		ReadingTime: readingTime(in.Body),
		Tags:        models.NormalizeTags(in.Tags),
		Body:        in.Body,
	}
	if err := s.articleRepo.Create(ctx, article); err != nil {
		return nil, err
	}

	// Reload so the response carries the author association.
	return s.articleRepo.GetByID(ctx, article.ID)
}

// Update applies a partial update to an article owned by the caller.
func (s *ArticleService) Update(ctx context.Context, in UpdateArticleInput) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, in.ArticleID)
	if err != nil {
		return nil, err
	}
	if article.UserID != in.UserID {
		return nil, models.NewForbiddenError("You are not authorized to update this article")
	}

	if in.Title != "" && in.Title != article.Title {
		exists, err := s.articleRepo.TitleExists(ctx, in.Title)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, models.NewConflictError("Article with that title already exists")
		}
		article.Title = in.Title
	}
	if in.Description != "" {
		article.Description = in.Description
	}
	if in.State != "" {
		if !models.ValidState(in.State) {
			return nil, models.NewValidationError("State must be either draft or published")
		}
		article.State = in.State
	}
	if in.Tags != nil {
		article.Tags = models.NormalizeTags(in.Tags)
	}
	if in.Body != "" {
		article.Body = in.Body
		article.ReadingTime = readingTime(in.Body)
	}

	if err := s.articleRepo.Update(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// Delete removes an article owned by the caller.
func (s *ArticleService) Delete(ctx context.Context, userID, articleID uint) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article.UserID != userID {
		return nil, models.NewForbiddenError("You are not authorized to delete this article")
	}
	if err := s.articleRepo.Delete(ctx, articleID); err != nil {
		return nil, err
	}
	return article, nil
}

// readingTime estimates whole minutes to read body at wordsPerMinute,
// rounded up, never below one minute.
func readingTime(body string) int {
	words := len(strings.Fields(body))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
