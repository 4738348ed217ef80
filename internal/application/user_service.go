package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/roamlist/places-backend/internal/domain/entity"
	repo "github.com/roamlist/places-backend/internal/domain/repository"
	"github.com/roamlist/places-backend/pkg/apperr"
	"github.com/roamlist/places-backend/pkg/helpers"
	"github.com/roamlist/places-backend/pkg/mailer"
)

// UserService implements the identity lifecycle: signup, login, list.
type UserService struct {
	Repo    repo.UserRepository
	JWT     *helpers.JWTManager
	Redis   *redis.Client
	Logger  *logrus.Logger
	Pub     *helpers.RabbitPublisher
	AppName string
}

func NewUserService(r repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, pub *helpers.RabbitPublisher, appName string) *UserService {
	return &UserService{Repo: r, JWT: jwt, Redis: rdb, Logger: logger, Pub: pub, AppName: appName}
}

type SignupInput struct {
	Name      string
	Email     string
	Password  string
	AvatarURL string
}

type AuthResult struct {
	UserID  string    `json:"user_id"`
	Email   string    `json:"email"`
	Token   string    `json:"token"`
	Expires time.Time `json:"expires_at"`
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

// Signup creates a user with an empty owned-place set and issues a
// bearer token. A colliding email fails with DuplicateEmail; the store
// never overwrites.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	u := &entity.User{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Email:     normalizeEmail(in.Email),
		AvatarURL: in.AvatarURL,
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	u.Password = hash

	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, apperr.DuplicateEmail()
		}
		return nil, apperr.Internal(err)
	}

	res, err := s.issueToken(ctx, u)
	if err != nil {
		return nil, err
	}

	s.publishWelcome(ctx, u)
	return res, nil
}

// Login verifies credentials and issues a token. Unknown email and
// wrong password return the identical error so accounts cannot be
// enumerated.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil || u == nil {
		return nil, apperr.InvalidCredentials()
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, apperr.InvalidCredentials()
	}
	return s.issueToken(ctx, u)
}

// List returns all users. Callers must not serialize the password hash.
func (s *UserService) List(ctx context.Context) ([]*entity.User, error) {
	users, err := s.Repo.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return users, nil
}

func (s *UserService) issueToken(ctx context.Context, u *entity.User) (*AuthResult, error) {
	token, exp, err := s.JWT.Generate(u.ID, u.Email)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("token signing failed")
		}
		return nil, apperr.Internal(err)
	}

	if s.Redis != nil {
		fields := map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"name":       u.Name,
			"avatar_url": u.AvatarURL,
			"created_at": time.Now().UTC().Format(time.RFC3339Nano),
		}
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, time.Until(exp))
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return &AuthResult{UserID: u.ID, Email: u.Email, Token: token, Expires: exp}, nil
}

// publishWelcome enqueues the welcome mail. Best-effort: a broker
// failure is logged and never fails the signup.
func (s *UserService) publishWelcome(ctx context.Context, u *entity.User) {
	if s.Pub == nil {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: "welcome",
		Data:     map[string]any{"Name": u.Name, "AppName": s.AppName},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome mail enqueue failed")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
