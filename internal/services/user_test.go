package services

import (
	"testing"
	"time"

	"couple-journal-backend/internal/repository/memory"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newUserService() *UserService {
	return NewUserService(memory.New().Repositories().Users, testSecret, time.Hour, testLoc)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newUserService()
	ctx := t.Context()

	user, err := svc.Register(ctx, RegisterRequest{
		Name:     " Linh ",
		Email:    "Linh@Example.com",
		Password: "secret123",
		Phone:    ptr("0901234567"),
		Birthday: ptr("1998-07-15"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Linh", user.Name)
	assert.Equal(t, "linh@example.com", user.Email)
	require.NotNil(t, user.PasswordHash)
	assert.NotEqual(t, "secret123", *user.PasswordHash)
	require.NotNil(t, user.Birthday)
	assert.Equal(t, "1998-07-15", user.Birthday.Format(dateLayout))

	session, err := svc.Login(ctx, LoginRequest{Email: "linh@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.User.ID)

	userID, err := svc.ValidateJWT(session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	_, err = svc.Login(ctx, LoginRequest{Email: "linh@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRegisterValidation(t *testing.T) {
	svc := newUserService()
	ctx := t.Context()

	_, err := svc.Register(ctx, RegisterRequest{Name: "A", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  RegisterRequest
		kind error
	}{
		{"missing name", RegisterRequest{Email: "b@example.com", Password: "secret1"}, ErrValidation},
		{"bad email", RegisterRequest{Name: "B", Email: "not-an-email", Password: "secret1"}, ErrValidation},
		{"short password", RegisterRequest{Name: "B", Email: "b@example.com", Password: "123"}, ErrValidation},
		{"bad birthday", RegisterRequest{Name: "B", Email: "b@example.com", Password: "secret1", Birthday: ptr("15/07/1998")}, ErrValidation},
		{"taken email", RegisterRequest{Name: "B", Email: "A@example.com", Password: "secret1"}, ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.req)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestValidateJWTRejectsBadTokens(t *testing.T) {
	svc := newUserService()
	ctx := t.Context()
	user, err := svc.Register(ctx, RegisterRequest{Name: "A", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	token, err := svc.GenerateJWT(user)
	require.NoError(t, err)

	other := NewUserService(nil, "another-secret", time.Hour, testLoc)
	_, err = other.ValidateJWT(token)
	assert.Error(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ValidateJWT(token)
	assert.Error(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: user.ID})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = newUserService().ValidateJWT(unsigned)
	assert.Error(t, err)
}

func TestUpdateProfileAndPushToken(t *testing.T) {
	svc := newUserService()
	ctx := t.Context()
	user, err := svc.Register(ctx, RegisterRequest{Name: "A", Email: "a@example.com", Password: "secret1", Phone: ptr("090")})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileRequest{Name: ptr("Anh"), Avatar: ptr("https://cdn/a.jpg")})
	require.NoError(t, err)
	assert.Equal(t, "Anh", updated.Name)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "090", *updated.Phone)

	_, err = svc.UpdateProfile(ctx, user.ID, UpdateProfileRequest{Name: ptr(" ")})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, svc.SetPushToken(ctx, user.ID, "device-token"))
	got, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PushToken)
	assert.Equal(t, "device-token", *got.PushToken)

	require.NoError(t, svc.SetPushToken(ctx, user.ID, ""))
	got, err = svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, got.PushToken)

	_, err = svc.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertOAuthUser(t *testing.T) {
	svc := newUserService()
	ctx := t.Context()

	first, err := svc.UpsertOAuthUser(ctx, "Mai@Example.com", "", "https://cdn/mai.png")
	require.NoError(t, err)
	assert.Equal(t, "mai", first.Name)
	assert.Nil(t, first.PasswordHash)

	again, err := svc.UpsertOAuthUser(ctx, "mai@example.com", "Mai", "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	// passwordless accounts cannot use password login
	_, err = svc.Login(ctx, LoginRequest{Email: "mai@example.com", Password: ""})
	assert.ErrorIs(t, err, ErrUnauthorized)
}
