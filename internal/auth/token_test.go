package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// テスト用の固定時刻。NumericDateは秒精度のため、秒単位の時刻を使う。
var testNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func newTestCodec(t *testing.T) *TokenCodec {
	t.Helper()
	codec, err := NewTokenCodec("test-secret", "HS256", 15*time.Minute)
	if err != nil {
		t.Fatalf("NewTokenCodec error: %v", err)
	}
	return codec
}

func TestNewTokenCodec_UnsupportedAlgorithm_ReturnsError(t *testing.T) {
	cases := []string{"RS256", "ES256", "none", ""}
	for _, alg := range cases {
		t.Run(alg, func(t *testing.T) {
			_, err := NewTokenCodec("secret", alg, time.Minute)
			if err == nil {
				t.Errorf("NewTokenCodec(%q) succeeded, want error", alg)
			}
		})
	}
}

func TestNewTokenCodec_EmptySecret_ReturnsError(t *testing.T) {
	_, err := NewTokenCodec("", "HS256", time.Minute)
	if err == nil {
		t.Fatal("expected error for empty secret, got nil")
	}
}

func TestTokenCodec_IssueAndValidate_RoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Issue(42, testNow)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// 3セグメントのコンパクト表現であること
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Fatalf("token has %d segments, want 3", len(parts))
	}

	subject, err := codec.Validate(token, testNow)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if subject != 42 {
		t.Errorf("subject = %d, want 42", subject)
	}
}

func TestTokenCodec_Validate_WithinTTLWindow(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Issue(7, testNow)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	cases := []struct {
		name    string
		at      time.Time
		wantErr error
	}{
		{"at issuance", testNow, nil},
		{"one second before expiry", testNow.Add(15*time.Minute - time.Second), nil},
		{"exactly at expiry", testNow.Add(15 * time.Minute), ErrTokenExpired},
		{"after expiry", testNow.Add(16 * time.Minute), ErrTokenExpired},
		{"long after expiry", testNow.Add(24 * time.Hour), ErrTokenExpired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			subject, err := codec.Validate(token, tc.at)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate error: %v", err)
				}
				if subject != 7 {
					t.Errorf("subject = %d, want 7", subject)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Validate error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestTokenCodec_Validate_TamperedSignature_ReturnsInvalidSignature(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Issue(42, testNow)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// 署名セグメントの1文字を書き換える
	idx := strings.LastIndex(token, ".") + 1
	sig := []byte(token[idx:])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := token[:idx] + string(sig)

	_, err = codec.Validate(tampered, testNow)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("Validate error = %v, want %v", err, ErrInvalidSignature)
	}
}

func TestTokenCodec_Validate_TamperedPayload_ReturnsInvalidSignature(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Issue(42, testNow)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// ペイロードセグメントを別トークンのものに差し替える
	other, err := codec.Issue(999, testNow)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	parts := strings.Split(token, ".")
	otherParts := strings.Split(other, ".")
	spliced := parts[0] + "." + otherParts[1] + "." + parts[2]

	_, err = codec.Validate(spliced, testNow)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("Validate error = %v, want %v", err, ErrInvalidSignature)
	}
}

func TestTokenCodec_Validate_WrongKey_ReturnsInvalidSignature(t *testing.T) {
	codec1, err := NewTokenCodec("key-one", "HS256", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenCodec error: %v", err)
	}
	codec2, err := NewTokenCodec("key-two", "HS256", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenCodec error: %v", err)
	}

	token, err := codec1.Issue(42, testNow)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = codec2.Validate(token, testNow)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("Validate error = %v, want %v", err, ErrInvalidSignature)
	}
}

func TestTokenCodec_Validate_WrongAlgorithmHeader_Rejected(t *testing.T) {
	codec := newTestCodec(t)

	// 同じ鍵でHS384署名されたトークンはヘッダー検査で拒否される
	claims := jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
	}
	other, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	_, err = codec.Validate(other, testNow)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("Validate error = %v, want %v", err, ErrInvalidSignature)
	}
}

func TestTokenCodec_Validate_Malformed_ReturnsMalformed(t *testing.T) {
	codec := newTestCodec(t)

	cases := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not a jwt", "not.a.jwt"},
		{"single segment", "abcdef"},
		{"garbage base64", "!!!.###.$$$"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := codec.Validate(tc.token, testNow)
			if !errors.Is(err, ErrTokenMalformed) {
				t.Errorf("Validate(%q) error = %v, want %v", tc.token, err, ErrTokenMalformed)
			}
		})
	}
}

func TestTokenCodec_Validate_MissingSubject_ReturnsMissingSubject(t *testing.T) {
	codec := newTestCodec(t)

	// subject無しで署名したトークン
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	_, err = codec.Validate(token, testNow)
	if !errors.Is(err, ErrMissingSubject) {
		t.Errorf("Validate error = %v, want %v", err, ErrMissingSubject)
	}
}

func TestTokenCodec_Validate_NonNumericSubject_ReturnsMalformed(t *testing.T) {
	codec := newTestCodec(t)

	claims := jwt.RegisteredClaims{
		Subject:   "not-a-number",
		ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	_, err = codec.Validate(token, testNow)
	if !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("Validate error = %v, want %v", err, ErrTokenMalformed)
	}
}

func TestTokenCodec_Validate_MissingExpiry_Rejected(t *testing.T) {
	codec := newTestCodec(t)

	claims := jwt.RegisteredClaims{
		Subject: "42",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	_, err = codec.Validate(token, testNow)
	if err == nil {
		t.Fatal("expected error for token without expiry, got nil")
	}
}

func TestTokenCodec_ExpiryFixedAtIssuance(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Issue(42, testNow)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// 検証を繰り返しても有効期限は発行時に固定されたまま変わらない
	later := testNow.Add(10 * time.Minute)
	if _, err := codec.Validate(token, later); err != nil {
		t.Fatalf("Validate at +10m error: %v", err)
	}
	if _, err := codec.Validate(token, testNow.Add(14*time.Minute)); err != nil {
		t.Fatalf("Validate at +14m error: %v", err)
	}
	if _, err := codec.Validate(token, testNow.Add(15*time.Minute)); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Validate at +15m error = %v, want %v", err, ErrTokenExpired)
	}
}
