// Package auth は認証コア（パスワードハッシュ、トークン発行・検証、
// ログインと認証解決）を提供する。
package auth

import "errors"

// 認証エラーの内部分類。
// ログとメトリクスでの診断用に区別を保つが、ハンドラー境界では
// ログインは403、トークン解決は401の2種類の外部結果に集約され、
// 個別のエラー種別がクライアントに漏れることはない。
var (
	// ErrInvalidCredentials はログイン失敗を表す。
	// 「ユーザーが存在しない」と「パスワード不一致」を意図的に区別しない。
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenMalformed はトークンが期待する構造にパースできないことを表す。
	ErrTokenMalformed = errors.New("token is malformed")

	// ErrInvalidSignature は署名の不一致を表す。改ざんおよび鍵違いを含む。
	ErrInvalidSignature = errors.New("token signature is invalid")

	// ErrTokenExpired は有効期限切れを表す。
	ErrTokenExpired = errors.New("token is expired")

	// ErrMissingSubject はペイロードにsubjectクレームが無いことを表す。
	ErrMissingSubject = errors.New("token is missing subject claim")

	// ErrUnknownSubject はトークン自体は有効だが、対応するユーザーが
	// 存在しない（発行後に削除された等）ことを表す。
	ErrUnknownSubject = errors.New("subject does not resolve to a known user")
)
