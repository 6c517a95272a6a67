package application

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/linskybing/orgflow/internal/api/middleware"
	"github.com/linskybing/orgflow/internal/domain/group"
	"github.com/linskybing/orgflow/internal/domain/user"
	"github.com/linskybing/orgflow/internal/repository"
	"github.com/linskybing/orgflow/internal/repository/mock"
	"github.com/linskybing/orgflow/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --------------------- Setup ---------------------
func setupUserServiceMocks(t *testing.T) (*UserService, *mock.MockUserRepo, *mock.MockMemberRepo) {
	ctrl := gomock.NewController(t)
	t.Cleanup(func() { ctrl.Finish() })

	mockUser := mock.NewMockUserRepo(ctrl)
	mockMember := mock.NewMockMemberRepo(ctrl)
	repos := &repository.Repos{
		User:   mockUser,
		Member: mockMember,
	}
	return NewUserService(repos), mockUser, mockMember
}

func stubToken(t *testing.T) *uint {
	var gotGroup uint
	oldGen := middleware.GenerateToken
	middleware.GenerateToken = func(userID uint, username string, groupID uint, exp time.Duration) (string, error) {
		gotGroup = groupID
		return "token123", nil
	}
	t.Cleanup(func() { middleware.GenerateToken = oldGen })
	return &gotGroup
}

// --------------------- RegisterUser ---------------------
func TestRegisterUser_Success(t *testing.T) {
	svc, mockUser, _ := setupUserServiceMocks(t)

	mockUser.EXPECT().GetUserByUsername(gomock.Any(), "alice").Return(nil, apperrors.NotFound("user", "alice"))
	mockUser.EXPECT().CreateUser(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *user.User) error {
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("123456")))
		u.ID = 4
		return nil
	})

	u, err := svc.RegisterUser(context.Background(), user.CreateUserInput{Username: " alice ", Password: "123456"})
	require.NoError(t, err)
	assert.Equal(t, uint(4), u.ID)
	assert.Equal(t, "alice", u.Username)
}

func TestRegisterUser_UsernameTaken(t *testing.T) {
	svc, mockUser, _ := setupUserServiceMocks(t)

	mockUser.EXPECT().GetUserByUsername(gomock.Any(), "admin").Return(&user.User{ID: 1}, nil)

	_, err := svc.RegisterUser(context.Background(), user.CreateUserInput{Username: "admin", Password: "123456"})
	assert.Equal(t, ErrUsernameTaken, err)
}

// --------------------- LoginUser ---------------------
func TestLoginUser_WithGroup(t *testing.T) {
	svc, mockUser, mockMember := setupUserServiceMocks(t)
	gotGroup := stubToken(t)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.DefaultCost)
	mockUser.EXPECT().GetUserByUsername(gomock.Any(), "bob").Return(&user.User{ID: 2, Username: "bob", Password: string(hashed)}, nil)
	mockMember.EXPECT().GetMember(gomock.Any(), uint(5), uint(2)).Return(&group.Member{ID: 9, GroupID: 5, UserID: 2, Role: "ACCOUNTANT"}, nil)

	u, member, token, err := svc.LoginUser(context.Background(), user.LoginInput{Username: "bob", Password: "123456", GroupID: 5})
	require.NoError(t, err)
	assert.Equal(t, "bob", u.Username)
	assert.Equal(t, "ACCOUNTANT", member.Role)
	assert.Equal(t, "token123", token)
	assert.Equal(t, uint(5), *gotGroup)
}

func TestLoginUser_WithoutGroup(t *testing.T) {
	svc, mockUser, _ := setupUserServiceMocks(t)
	gotGroup := stubToken(t)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.DefaultCost)
	mockUser.EXPECT().GetUserByUsername(gomock.Any(), "bob").Return(&user.User{ID: 2, Username: "bob", Password: string(hashed)}, nil)

	_, member, _, err := svc.LoginUser(context.Background(), user.LoginInput{Username: "bob", Password: "123456"})
	require.NoError(t, err)
	assert.Nil(t, member)
	assert.Zero(t, *gotGroup)
}

func TestLoginUser_InvalidCredentials(t *testing.T) {
	svc, mockUser, _ := setupUserServiceMocks(t)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.DefaultCost)
	mockUser.EXPECT().GetUserByUsername(gomock.Any(), "bob").Return(&user.User{ID: 2, Password: string(hashed)}, nil)
	mockUser.EXPECT().GetUserByUsername(gomock.Any(), "ghost").Return(nil, apperrors.NotFound("user", "ghost"))

	_, _, _, err := svc.LoginUser(context.Background(), user.LoginInput{Username: "bob", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, _, err = svc.LoginUser(context.Background(), user.LoginInput{Username: "ghost", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUser_NotMember(t *testing.T) {
	svc, mockUser, mockMember := setupUserServiceMocks(t)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.DefaultCost)
	mockUser.EXPECT().GetUserByUsername(gomock.Any(), "bob").Return(&user.User{ID: 2, Password: string(hashed)}, nil)
	mockMember.EXPECT().GetMember(gomock.Any(), uint(8), uint(2)).Return(nil, apperrors.NotFound("member", 2))

	_, _, _, err := svc.LoginUser(context.Background(), user.LoginInput{Username: "bob", Password: "pw", GroupID: 8})
	assert.ErrorIs(t, err, ErrNotGroupMember)
}
