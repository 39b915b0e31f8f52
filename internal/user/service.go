// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"

	"github.com/hitoshi/blogd/internal/auth"
	"github.com/hitoshi/blogd/internal/model"
	"github.com/hitoshi/blogd/internal/repository"
)

// Service はユーザー管理のサービス層。
// 登録と取得のビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	hasher   auth.PasswordHasher
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(userRepo repository.UserRepository, hasher auth.PasswordHasher) *Service {
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
	}
}

// Register は新規ユーザーを登録する。
// パスワードはハッシュ化してから保存し、平文は保持しない。
// メールアドレスが既に登録済みの場合はDuplicateEmailErrorを返す。
func (s *Service) Register(ctx context.Context, email, password string) (*model.User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, model.NewInvalidInputError("メールアドレスの形式が不正です")
	}
	if password == "" {
		return nil, model.NewInvalidInputError("パスワードを指定してください")
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, model.NewDuplicateEmailError()
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
	}

	u := &model.User{
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}

	slog.Info("user registered",
		slog.Int64("user_id", u.ID),
	)

	return u, nil
}

// Get はIDでユーザーを取得する。
// 存在しない場合はUserNotFoundErrorを返す。
func (s *Service) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(id)
	}
	return user, nil
}
