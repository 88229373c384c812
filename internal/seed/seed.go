// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the plaintext password assigned to every seeded user.
const DefaultPassword = "password123"

var articleTags = []string{
	"go", "programming", "web", "databases", "devops", "cloud",
	"testing", "security", "career", "opinion", "tutorial", "news",
}

// Seeder populates the database with demo users and articles.
type Seeder struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded data. Articles go first to satisfy the
// foreign key on users.
func (s *Seeder) ClearAll() error {
	if err := s.db.Exec("DELETE FROM articles").Error; err != nil {
		return fmt.Errorf("clear articles: %w", err)
	}
	if err := s.db.Exec("DELETE FROM users").Error; err != nil {
		return fmt.Errorf("clear users: %w", err)
	}
	log.Println("Database cleared")
	return nil
}

// SeedUsers creates n users with the shared default password.
func (s *Seeder) SeedUsers(n int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user := &models.User{
			FirstName: gofakeit.FirstName(),
			LastName:  gofakeit.LastName(),
			Email:     fmt.Sprintf("%s.%d@example.com", strings.ToLower(gofakeit.Username()), i),
			Password:  string(hashed),
		}
		if err := s.db.Create(user).Error; err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)
	}

	log.Printf("Seeded %d users", len(users))
	return users, nil
}

// SeedArticles creates n articles spread across the given users. Roughly a
// third stay as drafts so listings have both states to work with.
func (s *Seeder) SeedArticles(users []*models.User, n int) ([]*models.Article, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to own articles")
	}

	articles := make([]*models.Article, 0, n)
	for i := 0; i < n; i++ {
		owner := users[s.rng.Intn(len(users))]
		body := gofakeit.Paragraph(s.rng.Intn(8)+2, 4, 10, "\n\n")

		state := models.StatePublished
		if s.rng.Intn(3) == 0 {
			state = models.StateDraft
		}

		article := &models.Article{
			// Suffix keeps generated titles unique across the run.
			Title:       fmt.Sprintf("%s #%d", strings.TrimSuffix(gofakeit.Sentence(4), "."), i+1),
			Description: gofakeit.Sentence(10),
			UserID:      owner.ID,
			State:       state,
			ReadCount:   int64(s.rng.Intn(500)),
			ReadingTime: estimateReadingTime(body),
			Tags:        s.randomTags(),
			Body:        body,
		}
		article.CreatedAt = time.Now().Add(-time.Duration(s.rng.Intn(90*24)) * time.Hour)

		if err := s.db.Create(article).Error; err != nil {
			return nil, fmt.Errorf("create article: %w", err)
		}
		articles = append(articles, article)
	}

	log.Printf("Seeded %d articles", len(articles))
	return articles, nil
}

func (s *Seeder) randomTags() models.StringList {
	count := s.rng.Intn(3) + 1
	picked := make([]string, 0, count)
	for _, idx := range s.rng.Perm(len(articleTags))[:count] {
		picked = append(picked, articleTags[idx])
	}
	return models.NormalizeTags(picked)
}

func estimateReadingTime(body string) int {
	minutes := (len(strings.Fields(body)) + 199) / 200
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
