package service

import (
	"context"
	"testing"
	"time"

	"mindhaven/config"
	"mindhaven/internal/model"
	"mindhaven/pkg/jwt"
)

func newTestAuth(t *testing.T, mailer PasswordResetMailer) (*AuthService, *jwt.JWTService) {
	t.Helper()
	tokens := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour, Issuer: "mindhaven"})
	return NewAuthService(newTestStore(t), tokens, mailer), tokens
}

type fakeMailer struct {
	to, token string
}

func (m *fakeMailer) SendPasswordReset(to, token string, _ time.Duration) error {
	m.to, m.token = to, token
	return nil
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, tokens := newTestAuth(t, nil)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Role != model.RoleUser || u.PasswordHash == "secret1" {
		t.Errorf("unexpected user %+v", u)
	}

	res, err := svc.Login(ctx, "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := tokens.ValidateToken(res.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	id, err := claims.UserID()
	if err != nil || id != u.ID || claims.Role != model.RoleUser {
		t.Errorf("claims = %+v (id %d, %v)", claims, id, err)
	}
	if res.Therapist != nil {
		t.Error("plain user got therapist profile")
	}

	_, err = svc.Login(ctx, "alice@example.com", "wrong-pass")
	assertKind(t, err, ErrUnauthorized)
	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assertKind(t, err, ErrUnauthorized)
}

func TestAuthService_RegisterErrors(t *testing.T) {
	svc, _ := newTestAuth(t, nil)
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	tests := []struct {
		name string
		in   RegisterInput
		kind error
	}{
		{"missing email", RegisterInput{Username: "bob", Password: "secret1"}, ErrValidation},
		{"short password", RegisterInput{Username: "bob", Email: "bob@example.com", Password: "123"}, ErrValidation},
		{"admin role", RegisterInput{Username: "bob", Email: "bob@example.com", Password: "secret1", Role: model.RoleAdmin}, ErrValidation},
		{"therapist without specialty", RegisterInput{Username: "bob", Email: "bob@example.com", Password: "secret1", Role: model.RoleTherapist}, ErrValidation},
		{"duplicate username", RegisterInput{Username: "alice", Email: "other@example.com", Password: "secret1"}, ErrConflict},
		{"duplicate email", RegisterInput{Username: "bob", Email: "alice@example.com", Password: "secret1"}, ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.in)
			assertKind(t, err, tt.kind)
		})
	}
}

func TestAuthService_TherapistLifecycle(t *testing.T) {
	svc, _ := newTestAuth(t, nil)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{
		Username:  "drsmith",
		Email:     "smith@example.com",
		Password:  "secret1",
		Role:      model.RoleTherapist,
		Specialty: "CBT",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	res, err := svc.Login(ctx, "smith@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Therapist == nil || res.Therapist.UserID != u.ID || res.Therapist.Verified {
		t.Fatalf("therapist profile = %+v", res.Therapist)
	}

	stats, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if stats.TotalUsers != 1 || stats.TotalTherapists != 1 || stats.PendingTherapists != 1 {
		t.Errorf("stats = %+v", stats)
	}

	if err := svc.VerifyTherapist(ctx, res.Therapist.ID); err != nil {
		t.Fatalf("VerifyTherapist: %v", err)
	}
	assertKind(t, svc.VerifyTherapist(ctx, res.Therapist.ID+100), ErrNotFound)
	stats, _ = svc.Dashboard(ctx)
	if stats.PendingTherapists != 0 {
		t.Errorf("pending = %d after verify, want 0", stats.PendingTherapists)
	}
}

func TestAuthService_ForgotAndResetPassword(t *testing.T) {
	svc, _ := newTestAuth(t, nil)
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := svc.ForgotPassword(ctx, "nobody@example.com")
	assertKind(t, err, ErrNotFound)

	token, err := svc.ForgotPassword(ctx, "alice@example.com")
	if err != nil || token == "" {
		t.Fatalf("ForgotPassword = %q, %v", token, err)
	}

	assertKind(t, svc.ResetPassword(ctx, token, "newpass1", "different"), ErrValidation)
	assertKind(t, svc.ResetPassword(ctx, "bogus", "newpass1", "newpass1"), ErrValidation)
	if err := svc.ResetPassword(ctx, token, "newpass1", "newpass1"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	// 令牌只能使用一次
	assertKind(t, svc.ResetPassword(ctx, token, "newpass2", "newpass2"), ErrValidation)

	if _, err := svc.Login(ctx, "alice@example.com", "newpass1"); err != nil {
		t.Errorf("Login with new password: %v", err)
	}
	_, err = svc.Login(ctx, "alice@example.com", "secret1")
	assertKind(t, err, ErrUnauthorized)
}

func TestAuthService_ResetTokenExpires(t *testing.T) {
	svc, _ := newTestAuth(t, nil)
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, err := svc.ForgotPassword(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(2 * ResetTokenTTL) }
	assertKind(t, svc.ResetPassword(ctx, token, "newpass1", "newpass1"), ErrValidation)
}

func TestAuthService_ForgotPasswordMailsToken(t *testing.T) {
	mailer := &fakeMailer{}
	svc, _ := newTestAuth(t, mailer)
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, err := svc.ForgotPassword(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	if token != "" {
		t.Error("token returned to caller while mailer configured")
	}
	if mailer.to != "alice@example.com" || mailer.token == "" {
		t.Errorf("mailer got to=%q token=%q", mailer.to, mailer.token)
	}
	if err := svc.ResetPassword(ctx, mailer.token, "newpass1", "newpass1"); err != nil {
		t.Errorf("ResetPassword with mailed token: %v", err)
	}
}

func TestAuthService_SetRoleAndListUsers(t *testing.T) {
	svc, _ := newTestAuth(t, nil)
	ctx := context.Background()
	for _, name := range []string{"alice", "bob", "carol"} {
		if _, err := svc.Register(ctx, RegisterInput{Username: name, Email: name + "@example.com", Password: "secret1"}); err != nil {
			t.Fatalf("Register %s: %v", name, err)
		}
	}

	users, total, err := svc.ListUsers(ctx, 1, 2)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if total != 3 || len(users) != 2 {
		t.Errorf("ListUsers = %d users, total %d; want 2 of 3", len(users), total)
	}

	if err := svc.SetRole(ctx, users[0].ID, model.RoleAdmin); err != nil {
		t.Fatalf("SetRole: %v", err)
	}
	u, err := svc.Me(ctx, users[0].ID)
	if err != nil || u.Role != model.RoleAdmin {
		t.Errorf("Me = %+v, %v; want admin", u, err)
	}
	assertKind(t, svc.SetRole(ctx, 999, model.RoleAdmin), ErrNotFound)
	_, err = svc.Me(ctx, 999)
	assertKind(t, err, ErrNotFound)
}
