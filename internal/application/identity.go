package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
	"github.com/oksasatya/invest-marketplace/internal/domain/repository"
	"github.com/oksasatya/invest-marketplace/pkg/apperror"
	"github.com/oksasatya/invest-marketplace/pkg/helpers"
)

var errInvalidCredentials = apperror.Unauthorized("invalid email or password")

// IdentityService owns accounts: registration, login sessions and profiles.
type IdentityService struct {
	*Core
	JWT *helpers.JWTManager
}

func NewIdentityService(core *Core, jwt *helpers.JWTManager) *IdentityService {
	return &IdentityService{Core: core, JWT: jwt}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
	UserType        string
	Nationality     string
}

// Profile is a user with the companies they actively own and, for investors,
// their deals.
type Profile struct {
	User      *entity.User
	Companies []entity.CompanyCard
	Deals     []entity.DealWithCompany
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	role, ok := entity.ParseUserRole(in.UserType)
	if !ok {
		return nil, apperror.Validation("user_type must be Investor or Business")
	}
	if in.Password != in.ConfirmPassword {
		return nil, apperror.Validation("passwords do not match")
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || strings.TrimSpace(in.FirstName) == "" {
		return nil, apperror.Validation("first_name and email are required")
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, helpers.ErrPasswordTooLong) {
			return nil, apperror.Validation(err.Error())
		}
		return nil, err
	}
	u := &entity.User{
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		Email:       email,
		Password:    hash,
		Role:        role,
		Nationality: strings.TrimSpace(in.Nationality),
	}
	if err := s.Store.Repos().Users().Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict("email is already registered")
		}
		return nil, err
	}
	metricUsersRegistered.Add(1)
	s.log().WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("user registered")
	return u, nil
}

// Authenticate validates email/password and returns the user without issuing tokens.
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Store.Repos().Users().GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, errInvalidCredentials
	}
	return u, nil
}

// IssueTokens generates access/refresh tokens and records the session in Redis.
// A new login replaces the previous session of the same user.
func (s *IdentityService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	pair, err := s.sign(u, sid)
	if err != nil {
		return TokenPair{}, err
	}

	if s.Cache != nil {
		key := helpers.SessionKey(u.ID)
		pipe := s.Cache.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"role":       string(u.Role),
			"sid":        sid,
			"logged_in":  true,
			"created_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, s.JWT.RefreshTTL)
		if _, err := pipe.Exec(ctx); err != nil {
			s.log().WithError(err).WithField("key", key).Warn("redis pipeline failed")
		}
	}
	return pair, nil
}

func (s *IdentityService) sign(u *entity.User, sid string) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, string(u.Role), sid)
	if err != nil {
		s.log().WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, string(u.Role), sid)
	if err != nil {
		s.log().WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *IdentityService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh rotates the session id and both tokens. The refresh token must
// belong to the session currently stored for the user.
func (s *IdentityService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	invalid := apperror.Unauthorized("invalid refresh token")
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, invalid
	}
	u, err := s.Store.Repos().Users().GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, invalid
		}
		return TokenPair{}, err
	}

	if s.Cache != nil {
		key := helpers.SessionKey(u.ID)
		data, err := s.Cache.HGetAll(ctx, key).Result()
		if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, invalid
		}
	}

	sid := uuid.NewString()
	pair, err := s.sign(u, sid)
	if err != nil {
		return TokenPair{}, err
	}
	if s.Cache != nil {
		key := helpers.SessionKey(u.ID)
		pipe := s.Cache.Pipeline()
		pipe.HSet(ctx, key, map[string]any{"sid": sid, "updated_at": nowRFC3339()})
		pipe.Expire(ctx, key, s.JWT.RefreshTTL)
		if _, err := pipe.Exec(ctx); err != nil {
			s.log().WithError(err).WithField("key", key).Warn("redis pipeline failed")
		}
	}
	return pair, nil
}

// Logout drops the user's session; outstanding tokens stop passing the
// session check.
func (s *IdentityService) Logout(ctx context.Context, userID string) error {
	if s.Cache == nil {
		return nil
	}
	return helpers.RedisDel(ctx, s.Cache, helpers.SessionKey(userID))
}

func (s *IdentityService) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Store.Repos().Users().GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user not found")
	}
	return u, nil
}

func (s *IdentityService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	r := s.Store.Repos()
	u, err := r.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user not found")
	}

	owned, err := r.Companies().ListByActiveOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := &Profile{User: u, Companies: make([]entity.CompanyCard, 0, len(owned)), Deals: []entity.DealWithCompany{}}
	for i := range owned {
		p.Companies = append(p.Companies, owned[i].Card())
	}

	switch u.Role {
	case entity.RoleInvestor:
		deals, err := r.Deals().ListByInvestor(ctx, userID)
		if err != nil {
			return nil, err
		}
		if deals != nil {
			p.Deals = deals
		}
	case entity.RoleBusiness:
	}
	return p, nil
}

func (s *IdentityService) UploadAvatar(ctx context.Context, userID, filename, contentType string, file io.Reader) (string, error) {
	r := s.Store.Repos()
	if _, err := r.Users().GetByID(ctx, userID); err != nil {
		return "", notFound(err, "user not found")
	}
	url, err := s.upload(ctx, "avatars", userID, filename, contentType, file)
	if err != nil {
		return "", err
	}
	if err := r.Users().UpdateAvatar(ctx, userID, url); err != nil {
		return "", notFound(err, "user not found")
	}
	return url, nil
}
