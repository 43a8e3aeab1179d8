package auth_test

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenriver-post/almacen-api/internal/application/auth"
	"github.com/greenriver-post/almacen-api/internal/application/dto"
	"github.com/greenriver-post/almacen-api/internal/domain"
	"github.com/greenriver-post/almacen-api/internal/domain/entity"
	pkgjwt "github.com/greenriver-post/almacen-api/pkg/jwt"
)

type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) Create(u *entity.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetActiveByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.Active {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(u *entity.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) List(_, _ int) ([]*entity.User, int, error) {
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, len(out), nil
}

const testSecret = "test-secret-key"

func newAuthUC(repo *fakeUserRepo) *auth.AuthUseCase {
	return auth.NewAuthUseCase(repo, auth.JWTConfig{
		Secret:     testSecret,
		ExpMinutes: 60,
		Issuer:     "almacen-api-test",
	})
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, password string, roleID int, active bool) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &entity.User{
		ID:           "user-" + email,
		Name:         "Usuario " + email,
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       roleID,
		Active:       active,
	}
	require.NoError(t, repo.Create(u))
	return u
}

func TestLogin_EmiteTokenConRol(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "operario@almacen.pe", "secreta123", entity.RoleOperario, true)
	uc := newAuthUC(repo)

	resp, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    "operario@almacen.pe",
		Password: "secreta123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, entity.RoleOperario, resp.User.RoleID)

	// El token lleva el rol en los claims.
	userID, roleID, err := pkgjwt.Parse(testSecret, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-operario@almacen.pe", userID)
	assert.Equal(t, entity.RoleOperario, roleID)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "operario@almacen.pe", "secreta123", entity.RoleOperario, true)
	uc := newAuthUC(repo)

	// Contraseña equivocada y usuario inexistente responden igual.
	_, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    "operario@almacen.pe",
		Password: "otra-clave",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(context.Background(), dto.LoginRequest{
		Email:    "nadie@almacen.pe",
		Password: "secreta123",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "ex@almacen.pe", "secreta123", entity.RoleOficina, false)
	uc := newAuthUC(repo)

	_, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    "ex@almacen.pe",
		Password: "secreta123",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "usuario desactivado no puede iniciar sesión")
}

func TestRegister_CreaUsuarioConHash(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newAuthUC(repo)

	resp, err := uc.Register(context.Background(), dto.RegisterUserRequest{
		Name:     "Nueva Operaria",
		Email:    "nueva@almacen.pe",
		Password: "clave-segura",
		RoleID:   entity.RoleOperario,
	})
	require.NoError(t, err)
	assert.True(t, resp.Active)

	stored, err := repo.GetByEmail("nueva@almacen.pe")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "clave-segura", stored.PasswordHash, "la contraseña nunca se guarda en claro")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("clave-segura")))
}

func TestRegister_EmailDuplicado(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "dup@almacen.pe", "secreta123", entity.RoleOficina, true)
	uc := newAuthUC(repo)

	_, err := uc.Register(context.Background(), dto.RegisterUserRequest{
		Name:     "Duplicada",
		Email:    "dup@almacen.pe",
		Password: "clave-segura",
		RoleID:   entity.RoleOficina,
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_RolInvalido(t *testing.T) {
	uc := newAuthUC(newFakeUserRepo())

	_, err := uc.Register(context.Background(), dto.RegisterUserRequest{
		Name:     "Sin Rol",
		Email:    "sinrol@almacen.pe",
		Password: "clave-segura",
		RoleID:   9,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateUser_DesactivaYReactiva(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(t, repo, "delivery@almacen.pe", "secreta123", entity.RoleDelivery, true)
	uc := newAuthUC(repo)

	inactive := false
	resp, err := uc.UpdateUser(context.Background(), u.ID, dto.UpdateUserRequest{Active: &inactive})
	require.NoError(t, err)
	assert.False(t, resp.Active)

	// Desactivado ya no puede iniciar sesión.
	_, err = uc.Login(context.Background(), dto.LoginRequest{
		Email:    "delivery@almacen.pe",
		Password: "secreta123",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	active := true
	resp, err = uc.UpdateUser(context.Background(), u.ID, dto.UpdateUserRequest{Active: &active})
	require.NoError(t, err)
	assert.True(t, resp.Active)
}

func TestUpdateUser_Inexistente(t *testing.T) {
	uc := newAuthUC(newFakeUserRepo())

	name := "Nadie"
	_, err := uc.UpdateUser(context.Background(), "no-existe", dto.UpdateUserRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdateUser_PasswordCorta(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(t, repo, "corta@almacen.pe", "secreta123", entity.RoleOficina, true)
	uc := newAuthUC(repo)

	short := "abc"
	_, err := uc.UpdateUser(context.Background(), u.ID, dto.UpdateUserRequest{Password: &short})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
