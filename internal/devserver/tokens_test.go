package devserver

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hitoshi/atency/internal/model"
	"github.com/hitoshi/atency/internal/session"
)

func TestTokenIssuer_IssueAndParse(t *testing.T) {
	clock := newTestClock(saturdayMorning)
	issuer := NewTokenIssuer("secret", 24*time.Hour, clock.Now)

	token, err := issuer.Issue("alice", model.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != "alice" || claims.Role != model.RoleAdmin {
		t.Errorf("claims = %+v", claims)
	}
	if !claims.IssuedAt.Time.Equal(saturdayMorning.Truncate(time.Second)) {
		t.Errorf("iat = %v", claims.IssuedAt)
	}

	// クライアント側の署名なし読み取りとも整合する
	read, err := session.ParseClaims(token)
	if err != nil {
		t.Fatalf("session.ParseClaims: %v", err)
	}
	if read.Subject != "alice" || read.Role != "ADMIN" {
		t.Errorf("read = %+v", read)
	}
	if !read.ExpiresAt.Equal(saturdayMorning.Add(24 * time.Hour).Truncate(time.Second)) {
		t.Errorf("exp = %v", read.ExpiresAt)
	}
}

func TestTokenIssuer_RejectsInvalidTokens(t *testing.T) {
	clock := newTestClock(saturdayMorning)
	issuer := NewTokenIssuer("secret", time.Hour, clock.Now)
	token, _ := issuer.Issue("alice", model.RoleEmployee)

	t.Run("期限切れ", func(t *testing.T) {
		expiredClock := newTestClock(saturdayMorning.Add(2 * time.Hour))
		_, err := NewTokenIssuer("secret", time.Hour, expiredClock.Now).Parse(token)
		if !errors.Is(err, jwt.ErrTokenExpired) {
			t.Errorf("err = %v, want ErrTokenExpired", err)
		}
	})

	t.Run("別の秘密鍵", func(t *testing.T) {
		if _, err := NewTokenIssuer("other", time.Hour, clock.Now).Parse(token); err == nil {
			t.Error("署名不一致を検出すべき")
		}
	})

	t.Run("署名なし", func(t *testing.T) {
		unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"sub": "alice",
			"exp": saturdayMorning.Add(time.Hour).Unix(),
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		if _, err := issuer.Parse(unsigned); err == nil {
			t.Error("alg=none は拒否すべき")
		}
	})

	t.Run("期限なし", func(t *testing.T) {
		noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "alice"}).SignedString([]byte("secret"))
		if _, err := issuer.Parse(noExp); err == nil {
			t.Error("expのないトークンは拒否すべき")
		}
	})

	t.Run("形式不正", func(t *testing.T) {
		if _, err := issuer.Parse("not-a-jwt"); err == nil {
			t.Error("形式不正を検出すべき")
		}
	})
}

func TestAccountVerifier(t *testing.T) {
	clock := newTestClock(saturdayMorning)
	svc, store := newTestService(t, clock)
	registerUser(t, svc, "alice")
	verifier := &accountVerifier{tokens: svc.tokens, store: store}

	token, _ := svc.tokens.Issue("alice", model.RoleAdmin)
	p, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	// ロールはトークンではなく保存済みのユーザーから取る
	if p.Username != "alice" || p.Role != model.RoleEmployee {
		t.Errorf("principal = %+v", p)
	}

	ghost, _ := svc.tokens.Issue("ghost", model.RoleEmployee)
	if _, err := verifier.Verify(ghost); !errors.Is(err, ErrUnknownAccount) {
		t.Errorf("err = %v, want ErrUnknownAccount", err)
	}
}
