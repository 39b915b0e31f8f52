package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenCodec は自己完結型の署名付きトークンの発行と検証を行う。
// 署名鍵・アルゴリズム・TTLは起動時に1回だけ設定され、以後変更されない。
// 状態を持たないため、どのサーバーインスタンスでも検証できる。
// その代償として、発行済みトークンは期限切れまで失効できない。
type TokenCodec struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration
}

// NewTokenCodec はTokenCodecを生成する。
// algorithmはHS256、HS384、HS512のいずれかを指定する。
// サポート外のアルゴリズムはエラーを返し、起動を中断させる。
func NewTokenCodec(secret, algorithm string, ttl time.Duration) (*TokenCodec, error) {
	if secret == "" {
		return nil, fmt.Errorf("signing secret must not be empty")
	}

	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok || method == nil {
		return nil, fmt.Errorf("unsupported signing algorithm: %s", algorithm)
	}

	return &TokenCodec{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
	}, nil
}

// Issue はsubjectと有効期限を埋め込んだ署名付きトークンを発行する。
// 有効期限は発行時点で exp = now + ttl に固定され、以後再計算されない。
func (c *TokenCodec) Issue(subject int64, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(subject, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}

	token := jwt.NewWithClaims(c.method, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Validate はトークンを検証し、subjectを返す。
// 署名の再計算と比較、有効期限の確認、subjectの存在確認を行う。
// 入力と指定時刻のみに依存する純粋関数であり、外部状態を参照しない。
// ヘッダーのアルゴリズムは設定されたものだけを受理する（alg混同攻撃の防止）。
func (c *TokenCodec) Validate(tokenString string, now time.Time) (int64, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return 0, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return 0, ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return 0, ErrTokenMalformed
		default:
			return 0, ErrTokenMalformed
		}
	}

	if claims.Subject == "" {
		return 0, ErrMissingSubject
	}

	subject, parseErr := strconv.ParseInt(claims.Subject, 10, 64)
	if parseErr != nil {
		return 0, ErrTokenMalformed
	}

	return subject, nil
}

// TTL は設定されたトークン有効期間を返す。
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}
