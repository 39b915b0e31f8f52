package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/hitoshi/blogd/internal/model"
)

// UserFinder は認証コアが必要とする永続化インターフェース。
// repository.UserRepositoryの部分集合として定義する。
// どちらも副作用のない読み取りとして扱う。
type UserFinder interface {
	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.User, error)
}

// MetricsRecorder は認証結果のメトリクス記録インターフェース。
// nilの場合は記録しない。
type MetricsRecorder interface {
	RecordLoginSuccess()
	RecordLoginFailure()
	RecordTokenRejected(reason string)
}

// Service は認証のビジネスロジックを提供する。
// 全フィールドは起動後イミュータブルであり、スレッドセーフである。
type Service struct {
	users   UserFinder
	hasher  PasswordHasher
	codec   *TokenCodec
	metrics MetricsRecorder
}

// NewService はServiceを生成する。metricsはnilでもよい。
func NewService(users UserFinder, hasher PasswordHasher, codec *TokenCodec, metrics MetricsRecorder) *Service {
	return &Service{
		users:   users,
		hasher:  hasher,
		codec:   codec,
		metrics: metrics,
	}
}

// Login はメールアドレスと平文パスワードを検証し、トークンを発行する。
// ユーザー未登録とパスワード不一致はどちらもErrInvalidCredentialsを返す。
// 外部からどちらの失敗かを区別できないようにするためで、ログ上でのみ内訳を残す。
// 読み取り以外の副作用はなく、失敗回数の記録も行わない。
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		slog.Warn("login failed",
			slog.String("email", email),
			slog.String("reason", "unknown email"),
		)
		s.recordLoginFailure()
		return "", ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		slog.Warn("login failed",
			slog.String("email", email),
			slog.String("reason", "password mismatch"),
		)
		s.recordLoginFailure()
		return "", ErrInvalidCredentials
	}

	token, err := s.codec.Issue(user.ID, time.Now())
	if err != nil {
		return "", err
	}

	slog.Info("login succeeded",
		slog.Int64("user_id", user.ID),
	)
	if s.metrics != nil {
		s.metrics.RecordLoginSuccess()
	}

	return token, nil
}

// Resolve はトークンを検証し、対応するユーザーを返す。
// トークン検証エラー（期限切れ、署名不正等）はそのまま伝播する。
// トークンが有効でもユーザーが存在しない場合はErrUnknownSubjectを返す。
// ユーザーは1リクエストの間だけ利用され、キャッシュされない。
func (s *Service) Resolve(ctx context.Context, tokenString string) (*model.User, error) {
	subject, err := s.codec.Validate(tokenString, time.Now())
	if err != nil {
		slog.Warn("token rejected",
			slog.String("reason", err.Error()),
		)
		s.recordTokenRejected(err)
		return nil, err
	}

	user, err := s.users.FindByID(ctx, subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		slog.Warn("token subject not found",
			slog.Int64("subject", subject),
		)
		s.recordTokenRejected(ErrUnknownSubject)
		return nil, ErrUnknownSubject
	}

	return user, nil
}

func (s *Service) recordLoginFailure() {
	if s.metrics != nil {
		s.metrics.RecordLoginFailure()
	}
}

func (s *Service) recordTokenRejected(err error) {
	if s.metrics == nil {
		return
	}
	switch err {
	case ErrTokenExpired:
		s.metrics.RecordTokenRejected("expired")
	case ErrInvalidSignature:
		s.metrics.RecordTokenRejected("invalid_signature")
	case ErrTokenMalformed:
		s.metrics.RecordTokenRejected("malformed")
	case ErrMissingSubject:
		s.metrics.RecordTokenRejected("missing_subject")
	case ErrUnknownSubject:
		s.metrics.RecordTokenRejected("unknown_subject")
	default:
		s.metrics.RecordTokenRejected("other")
	}
}
