package server

import (
	"fmt"
	"strconv"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Signup handles POST /user/signup
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Signup(c.UserContext(), service.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return models.RespondError(c, err)
	}

	return models.RespondSuccess(c, fiber.StatusCreated, "Signup successful", fiber.Map{
		"user": user,
	})
}

// Login handles POST /user/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return models.RespondError(c, err)
	}

	token, err := s.generateToken(user.ID, user.FirstName, user.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return models.RespondSuccess(c, fiber.StatusOK, "Login successful", fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Logout handles POST /user/logout. Tokens are stateless, so logout is an
// acknowledgment; the client discards its token and the token expires on
// its own schedule.
func (s *Server) Logout(c *fiber.Ctx) error {
	return models.RespondSuccess(c, fiber.StatusOK, "Logout successful", nil)
}

// generateToken creates a JWT token for the given user
func (s *Server) generateToken(userID uint, firstName, email string) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":        strconv.FormatUint(uint64(userID), 10), // Subject (user ID as string)
		"first_name": firstName,                              // Display name (cached in token)
		"email":      email,                                  // Login identity (cached in token)
		"iss":        tokenIssuer,                            // Issuer
		"aud":        tokenAudience,                          // Audience
		"exp":        now.Add(time.Hour * 24 * 7).Unix(),     // Expiration (7 days)
		"iat":        now.Unix(),                             // Issued at
		"nbf":        now.Unix(),                             // Not before
		"jti":        s.generateJTI(),                        // JWT ID (unique identifier)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func (s *Server) generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
