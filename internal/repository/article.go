package repository

import (
	"context"
	"errors"
	"strings"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// ArticleFilter narrows a listing query. Zero values mean "no constraint".
// List and Count take the same filter so pagination metadata always matches
// the returned rows.
type ArticleFilter struct {
	State         string
	UserID        uint
	Author        string // author's first name, matched via the users table
	TitleContains string // case-insensitive substring
	Tags          []string
	SortBy        string
	SortOrder     string
}

// ArticleRepository defines persistence operations for articles.
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetByID(ctx context.Context, id uint) (*models.Article, error)
	GetPublishedByID(ctx context.Context, id uint) (*models.Article, error)
	IncrementReadCount(ctx context.Context, id uint) error
	List(ctx context.Context, f ArticleFilter, limit, offset int) ([]*models.Article, error)
	Count(ctx context.Context, f ArticleFilter) (int64, error)
	TitleExists(ctx context.Context, title string) (bool, error)
	Update(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, id uint) error
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository creates a new article repository.
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(ctx context.Context, article *models.Article) error {
	if err := r.db.WithContext(ctx).Create(article).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Article with that title already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *articleRepository) GetByID(ctx context.Context, id uint) (*models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).Preload("User").First(&article, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Article", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &article, nil
}

// GetPublishedByID is the public read path; drafts are indistinguishable
// from missing articles here.
func (r *articleRepository) GetPublishedByID(ctx context.Context, id uint) (*models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("state = ?", models.StatePublished).
		First(&article, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Article", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &article, nil
}

// IncrementReadCount bumps read_count in a single UPDATE so concurrent reads
// never lose increments.
func (r *articleRepository) IncrementReadCount(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Article{}).
		Where("id = ?", id).
		UpdateColumn("read_count", gorm.Expr("read_count + 1")).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *articleRepository) List(ctx context.Context, f ArticleFilter, limit, offset int) ([]*models.Article, error) {
	var articles []*models.Article
	q := r.applyFilter(r.db.WithContext(ctx).Model(&models.Article{}), f)
	err := r.applySort(q, f).
		Preload("User").
		Limit(limit).
		Offset(offset).
		Find(&articles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return articles, nil
}

func (r *articleRepository) Count(ctx context.Context, f ArticleFilter) (int64, error) {
	var count int64
	q := r.applyFilter(r.db.WithContext(ctx).Model(&models.Article{}), f)
	if err := q.Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// TitleExists is a case-sensitive exact match across all states.
func (r *articleRepository) TitleExists(ctx context.Context, title string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Article{}).
		Where("title = ?", title).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *articleRepository) Update(ctx context.Context, article *models.Article) error {
	if err := r.db.WithContext(ctx).Save(article).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Article with that title already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *articleRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Article{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// applyFilter translates an ArticleFilter into WHERE clauses. The tag match
// pads the stored comma-separated column so a tag can only match whole
// entries; an article matches when it carries at least one requested tag.
func (r *articleRepository) applyFilter(db *gorm.DB, f ArticleFilter) *gorm.DB {
	if f.State != "" {
		db = db.Where("articles.state = ?", f.State)
	}
	if f.UserID != 0 {
		db = db.Where("articles.user_id = ?", f.UserID)
	}
	if f.Author != "" {
		db = db.Joins("JOIN users ON users.id = articles.user_id").
			Where("users.first_name = ?", f.Author)
	}
	if f.TitleContains != "" {
		db = db.Where("LOWER(articles.title) LIKE ?", "%"+strings.ToLower(f.TitleContains)+"%")
	}
	if len(f.Tags) > 0 {
		cond := r.db.Session(&gorm.Session{NewDB: true})
		for i, tag := range f.Tags {
			pattern := "%," + tag + ",%"
			if i == 0 {
				cond = cond.Where("(',' || articles.tags || ',') LIKE ?", pattern)
			} else {
				cond = cond.Or("(',' || articles.tags || ',') LIKE ?", pattern)
			}
		}
		db = db.Where(cond)
	}
	return db
}

// applySort whitelists sortable columns; anything unrecognized falls back to
// stable insertion order.
func (r *articleRepository) applySort(db *gorm.DB, f ArticleFilter) *gorm.DB {
	column := ""
	switch f.SortBy {
	case "created_at", "read_count", "reading_time", "title":
		column = "articles." + f.SortBy
	default:
		return db.Order("articles.id ASC")
	}

	direction := "ASC"
	if strings.EqualFold(f.SortOrder, "desc") {
		direction = "DESC"
	}
	return db.Order(column + " " + direction)
}
