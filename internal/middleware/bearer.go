// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/hitoshi/blogd/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userContextKey はリクエストコンテキストに認証済みユーザーを格納するためのキー。
var userContextKey = contextKey("auth_user")

// IdentityResolver はトークンから認証済みユーザーを解決するインターフェース。
// auth.Serviceの部分集合として定義する。
type IdentityResolver interface {
	Resolve(ctx context.Context, tokenString string) (*model.User, error)
}

// NewBearerAuthMiddleware はAuthorizationヘッダーからBearerトークンを取り出し、
// 検証するミドルウェアを返す。
// 認証済みユーザーをリクエストコンテキストに注入する。
// 失敗理由（期限切れ、署名不正、ユーザー削除済み等）はResolver内でログに残るが、
// 外部には一律401 Unauthorizedのみを返し、WWW-Authenticate: Bearerを付与する。
func NewBearerAuthMiddleware(resolver IdentityResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. AuthorizationヘッダーからBearerトークンを取得
			token, ok := extractBearerToken(r)
			if !ok {
				writeUnauthorized(w)
				return
			}

			// 2. トークンを検証し、ユーザーを解決
			user, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				writeUnauthorized(w)
				return
			}

			// 3. 認証済みユーザーをコンテキストに注入
			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken は "Authorization: Bearer <token>" 形式のヘッダーから
// トークン文字列を取り出す。形式が異なる場合はfalseを返す。
func extractBearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}

	return token, true
}

// writeUnauthorized は認証失敗の統一レスポンスを書き込む。
// RFC 6750に従いWWW-Authenticateヒントを付与する。
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
}

// UserFromContext はリクエストコンテキストから認証済みユーザーを取得する。
// Bearer認証ミドルウェアを通過したリクエストでのみ有効。
func UserFromContext(ctx context.Context) (*model.User, error) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	if !ok || user == nil {
		return nil, fmt.Errorf("authenticated user not found in context")
	}
	return user, nil
}

// ContextWithUser はコンテキストに認証済みユーザーを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
