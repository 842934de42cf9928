package jwt

import (
	"errors"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	apperrors "github.com/xiebiao/vibeshelf/pkg/errors"
)

func TestManager_GenerateAndParse(t *testing.T) {
	m := NewManager("unit-test-secret", 365*24*time.Hour, "vibeshelf")

	token, err := m.GenerateToken(42, "reader@example.com")
	if err != nil {
		t.Fatalf("签发Token失败: %v", err)
	}
	if token.ExpiresIn != int64(365*24*3600) {
		t.Errorf("ExpiresIn错误: %d", token.ExpiresIn)
	}

	claims, err := m.ParseToken(token.Value)
	if err != nil {
		t.Fatalf("解析Token失败: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID错误: got=%d", claims.UserID)
	}
	if claims.Email() != "reader@example.com" {
		t.Errorf("Email错误: got=%s", claims.Email())
	}
}

func TestManager_ParseToken_Expired(t *testing.T) {
	m := NewManager("unit-test-secret", time.Hour, "vibeshelf")

	issued := time.Now().Add(-2 * time.Hour)
	m.now = func() time.Time { return issued }
	token, err := m.GenerateToken(1, "a@b.com")
	if err != nil {
		t.Fatalf("签发Token失败: %v", err)
	}

	m.now = time.Now
	_, err = m.ParseToken(token.Value)
	if !errors.Is(err, apperrors.ErrTokenExpired) {
		t.Errorf("期望ErrTokenExpired，实际%v", err)
	}
}

func TestManager_ParseToken_Invalid(t *testing.T) {
	m := NewManager("unit-test-secret", time.Hour, "vibeshelf")
	other := NewManager("another-secret", time.Hour, "vibeshelf")

	token, _ := other.GenerateToken(1, "a@b.com")

	tests := []struct {
		name  string
		token string
	}{
		{"签名不匹配", token.Value},
		{"格式错误", "not-a-jwt"},
		{"空字符串", ""},
		{"alg=none", unsignedToken(t)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.ParseToken(tt.token)
			if !errors.Is(err, apperrors.ErrInvalidToken) {
				t.Errorf("期望ErrInvalidToken，实际%v", err)
			}
		})
	}
}

func unsignedToken(t *testing.T) string {
	t.Helper()
	claims := Claims{
		UserID: 1,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   "a@b.com",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	s, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, claims).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("生成none Token失败: %v", err)
	}
	return s
}
