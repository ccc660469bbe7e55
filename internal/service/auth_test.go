package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Sebastiaaann/Tienda-Vinilos/internal/domain"
	"github.com/Sebastiaaann/Tienda-Vinilos/internal/repository"
)

type fakeUserRepo struct {
	byEmail map[string]*domain.User
	nextID  int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) (int64, error) {
	if _, ok := f.byEmail[user.Email]; ok {
		return 0, repository.ErrEmailTaken
	}

	f.nextID++
	stored := *user
	stored.ID = f.nextID
	f.byEmail[user.Email] = &stored

	return f.nextID, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	clone := *user
	return &clone, nil
}

func TestRegisterHashesPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, "test-secret", time.Hour, zap.NewNop())

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:    "admin@tiendavinilos.cl",
		Name:     "Admin",
		Password: "super-secreto",
	})
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, user.Role)

	stored := repo.byEmail["admin@tiendavinilos.cl"]
	require.NotEqual(t, "super-secreto", stored.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, "test-secret", time.Hour, zap.NewNop())

	input := RegisterInput{Email: "dup@example.cl", Name: "Dup", Password: "12345678"}

	_, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), input)
	require.ErrorIs(t, err, repository.ErrEmailTaken)
}

func TestLoginIssuesTokenWithRoleClaim(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, "test-secret", time.Hour, zap.NewNop())

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "maria@example.cl",
		Name:     "María",
		Password: "contraseña1",
	})
	require.NoError(t, err)

	// promote out of band, the way an operator would
	repo.byEmail["maria@example.cl"].Role = domain.RoleAdmin

	token, user, err := svc.Login(context.Background(), LoginInput{
		Email:    "maria@example.cl",
		Password: "contraseña1",
	})
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, user.Role)

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims := parsed.Claims.(jwt.MapClaims)
	require.Equal(t, "ADMIN", claims["role"])
	require.NotEmpty(t, claims["jti"])
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, "test-secret", time.Hour, zap.NewNop())

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "maria@example.cl",
		Name:     "María",
		Password: "contraseña1",
	})
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), LoginInput{
		Email:    "maria@example.cl",
		Password: "otra-cosa",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUserLooksLikeWrongPassword(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), "test-secret", time.Hour, zap.NewNop())

	_, _, err := svc.Login(context.Background(), LoginInput{
		Email:    "nadie@example.cl",
		Password: "whatever",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
