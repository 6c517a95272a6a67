package application

import (
	"context"
	"strings"
	"time"

	"github.com/linskybing/orgflow/internal/api/middleware"
	"github.com/linskybing/orgflow/internal/config"
	"github.com/linskybing/orgflow/internal/domain/group"
	"github.com/linskybing/orgflow/internal/domain/user"
	"github.com/linskybing/orgflow/internal/repository"
	"github.com/linskybing/orgflow/pkg/apperrors"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken      = apperrors.Validation("username already taken")
	ErrInvalidCredentials = apperrors.Unauthenticated("invalid credentials")
	ErrNotGroupMember     = apperrors.Forbidden("user is not a member of this group")
)

type UserService struct {
	Repos *repository.Repos
}

func NewUserService(repos *repository.Repos) *UserService {
	return &UserService{
		Repos: repos,
	}
}

func (s *UserService) RegisterUser(ctx context.Context, input user.CreateUserInput) (*user.User, error) {
	username := strings.TrimSpace(input.Username)
	_, err := s.Repos.User.GetUserByUsername(ctx, username)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !apperrors.IsKind(err, apperrors.KindNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to hash password")
	}

	usr := &user.User{
		Username: username,
		Password: string(hashed),
		FullName: input.FullName,
	}
	if err := s.Repos.User.CreateUser(ctx, usr); err != nil {
		return nil, err
	}
	return usr, nil
}

// LoginUser checks the password and issues a token. With a group id the
// token is scoped to that membership; without one it only reaches the
// group-less endpoints.
func (s *UserService) LoginUser(ctx context.Context, input user.LoginInput) (*user.User, *group.Member, string, error) {
	usr, err := s.Repos.User.GetUserByUsername(ctx, input.Username)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return nil, nil, "", ErrInvalidCredentials
		}
		return nil, nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usr.Password), []byte(input.Password)); err != nil {
		return nil, nil, "", ErrInvalidCredentials
	}

	var member *group.Member
	if input.GroupID != 0 {
		member, err = s.Repos.Member.GetMember(ctx, input.GroupID, usr.ID)
		if err != nil {
			if apperrors.IsKind(err, apperrors.KindNotFound) {
				return nil, nil, "", ErrNotGroupMember
			}
			return nil, nil, "", err
		}
	}

	ttl := time.Duration(config.TokenTTLHours) * time.Hour
	token, err := middleware.GenerateToken(usr.ID, usr.Username, input.GroupID, ttl)
	if err != nil {
		return nil, nil, "", apperrors.Internal(err, "failed to issue token")
	}
	return usr, member, token, nil
}
