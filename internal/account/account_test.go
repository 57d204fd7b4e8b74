// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package account

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kertasdev/kertas/internal/auth"
	"github.com/kertasdev/kertas/internal/platform/apperr"
	"github.com/kertasdev/kertas/internal/platform/sec"
)

type fakeUserRepo struct {
	users map[int64]*auth.User
}

func (repo *fakeUserRepo) FindByID(_ context.Context, id int64) (*auth.User, error) {
	user, ok := repo.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

func (repo *fakeUserRepo) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range repo.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepo) Create(_ context.Context, user *auth.User) error {
	repo.users[user.ID] = user
	return nil
}

func (repo *fakeUserRepo) UpdateProfile(_ context.Context, user *auth.User) error {
	if _, ok := repo.users[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	repo.users[user.ID] = user
	return nil
}

func (repo *fakeUserRepo) ResetPassword(_ context.Context, userID int64, newHash string) error {
	user, ok := repo.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = newHash
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeUserRepo, *sec.FieldCodec) {
	t.Helper()

	fields, err := sec.NewFieldCodec([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	phone, err := fields.EncryptString("08123456789")
	require.NoError(t, err)
	points, err := fields.EncryptString("250")
	require.NoError(t, err)

	repo := &fakeUserRepo{users: map[int64]*auth.User{
		7: {
			ID:           7,
			Name:         "Andi Kurnia",
			Email:        "andi@example.com",
			Role:         sec.RoleUser,
			PhoneSealed:  phone,
			PointsSealed: points,
			ReferralCode: "KRT-TEST",
		},
	}}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, fields, logger), repo, fields
}

func TestService_Profile(t *testing.T) {
	service, _, _ := newTestService(t)

	identity, err := service.Profile(context.Background(), 7)
	require.NoError(t, err)

	// Sealed columns come out decoded, exactly once, here.
	assert.Equal(t, "08123456789", identity.Phone)
	assert.Equal(t, int64(250), identity.Points)
	assert.Equal(t, "Andi Kurnia", identity.Name)

	_, err = service.Profile(context.Background(), 404)
	require.Error(t, err)
	assert.Equal(t, 404, apperr.As(err).HTTPStatus)
}

func TestService_UpdateProfile(t *testing.T) {
	service, repo, fields := newTestService(t)

	identity, err := service.UpdateProfile(context.Background(), 7, UpdateInput{
		Name:   "Andi K.",
		Avatar: "https://cdn.kertas.app/a/7.png",
		Phone:  "08999999999",
	})
	require.NoError(t, err)
	assert.Equal(t, "Andi K.", identity.Name)
	assert.Equal(t, "08999999999", identity.Phone)

	// The stored row holds the sealed phone, not the plaintext.
	stored := repo.users[7]
	assert.NotEqual(t, "08999999999", stored.PhoneSealed)
	plain, err := fields.DecryptString(stored.PhoneSealed)
	require.NoError(t, err)
	assert.Equal(t, "08999999999", plain)
}

func TestService_UpdateProfile_Validation(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.UpdateProfile(context.Background(), 7, UpdateInput{Name: ""})
	require.Error(t, err)
	assert.Equal(t, 400, apperr.As(err).HTTPStatus)
}
