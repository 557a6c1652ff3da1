package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"pawrescue/apperr"
	"pawrescue/models"
)

const adminRole = "admin"

// AdminLogin checks the credentials against the stored bcrypt hash and
// issues a signed session token. Unknown usernames and bad passwords
// are indistinguishable to the caller.
func (s *Service) AdminLogin(ctx context.Context, username, password string) (string, error) {
	if username == "" {
		return "", apperr.MissingField("username")
	}
	if password == "" {
		return "", apperr.MissingField("password")
	}

	hash, err := s.db.GetAdminPasswordHash(ctx, username)
	if errors.Is(err, apperr.ErrNotFound) {
		return "", fmt.Errorf("admin login: %w", apperr.ErrUnauthorized)
	}
	if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", fmt.Errorf("admin login: %w", apperr.ErrUnauthorized)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  username,
		"role": adminRole,
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.JWTTTL).Unix(),
	})
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	log.WithField("username", username).Info("Admin logged in")
	return signed, nil
}

// ValidateAdminToken parses a session token and returns the admin
// username. Anything but a live HS256 token with the admin role fails.
func (s *Service) ValidateAdminToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid session token: %w", apperr.ErrUnauthorized)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["role"] != adminRole {
		return "", fmt.Errorf("missing admin role: %w", apperr.ErrUnauthorized)
	}
	username, _ := claims["sub"].(string)
	if username == "" {
		return "", fmt.Errorf("missing subject: %w", apperr.ErrUnauthorized)
	}
	return username, nil
}

// Settings returns all runtime settings.
func (s *Service) Settings(ctx context.Context) (map[string]string, error) {
	return s.db.ListSettings(ctx)
}

// SetSetting upserts one runtime setting.
func (s *Service) SetSetting(ctx context.Context, key, value string) error {
	if key == "" {
		return apperr.MissingField("key")
	}
	return s.db.UpsertSetting(ctx, key, value)
}

// DashboardCounts is the admin landing block.
type DashboardCounts struct {
	PendingReports int `json:"pendingReports"`
	Users          int `json:"users"`
}

// Dashboard returns the moderation queue size and user count.
func (s *Service) Dashboard(ctx context.Context) (*DashboardCounts, error) {
	pending, err := s.db.AdminPendingCount(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.db.AdminUserCount(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardCounts{PendingReports: pending, Users: users}, nil
}

// Users returns the admin user directory.
func (s *Service) Users(ctx context.Context) ([]models.UserProfile, error) {
	return s.db.ListUsers(ctx)
}

// Overview returns the public headline statistics.
func (s *Service) Overview(ctx context.Context) (*models.StatsOverview, error) {
	return s.db.StatsOverview(ctx)
}

// Trends returns the last week of report and rescue counts per day.
func (s *Service) Trends(ctx context.Context) ([]models.TrendPoint, error) {
	return s.db.StatsTrends(ctx)
}

// Regions returns report counts grouped by leading address segment.
func (s *Service) Regions(ctx context.Context) ([]models.RegionCount, error) {
	return s.db.StatsRegions(ctx)
}
