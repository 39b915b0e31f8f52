// Package post は記事管理のドメインロジックを提供する。
package post

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/blogd/internal/model"
	"github.com/hitoshi/blogd/internal/repository"
	"github.com/hitoshi/blogd/internal/security"
)

// CreateInput は記事作成の入力。
type CreateInput struct {
	Title   string
	Content string
	// IsPublishedがnilの場合は公開扱い（デフォルトtrue）。
	IsPublished *bool
}

// UpdateInput は記事更新の入力。
type UpdateInput struct {
	Title       string
	Content     string
	IsPublished *bool
}

// Service は記事管理のサービス層。
// 一覧・取得・作成・更新・削除のビジネスロジックを提供する。
// 本文は保存前にサニタイズされる。
type Service struct {
	postRepo  repository.PostRepository
	sanitizer security.ContentSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(postRepo repository.PostRepository, sanitizer security.ContentSanitizerService) *Service {
	return &Service{
		postRepo:  postRepo,
		sanitizer: sanitizer,
	}
}

// List は全記事を作成日時の降順で返す。
func (s *Service) List(ctx context.Context) ([]*model.Post, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("記事一覧の取得に失敗しました: %w", err)
	}
	return posts, nil
}

// Get はIDで記事を取得する。
// 存在しない場合はPostNotFoundErrorを返す。
func (s *Service) Get(ctx context.Context, id int64) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("記事の取得に失敗しました: %w", err)
	}
	if post == nil {
		return nil, model.NewPostNotFoundError(id)
	}
	return post, nil
}

// Create は新規記事を作成する。
func (s *Service) Create(ctx context.Context, input CreateInput) (*model.Post, error) {
	if input.Title == "" {
		return nil, model.NewInvalidInputError("タイトルを指定してください")
	}

	published := true
	if input.IsPublished != nil {
		published = *input.IsPublished
	}

	p := &model.Post{
		Title:       input.Title,
		Content:     s.sanitizer.Sanitize(input.Content),
		IsPublished: published,
	}
	if err := s.postRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("記事の作成に失敗しました: %w", err)
	}

	slog.Info("post created",
		slog.Int64("post_id", p.ID),
	)

	return p, nil
}

// Update は既存記事を上書き更新する。
// 存在しない場合はPostNotFoundErrorを返す。
func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (*model.Post, error) {
	if input.Title == "" {
		return nil, model.NewInvalidInputError("タイトルを指定してください")
	}

	existing, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("記事の取得に失敗しました: %w", err)
	}
	if existing == nil {
		return nil, model.NewPostNotFoundError(id)
	}

	existing.Title = input.Title
	existing.Content = s.sanitizer.Sanitize(input.Content)
	if input.IsPublished != nil {
		existing.IsPublished = *input.IsPublished
	}

	if err := s.postRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("記事の更新に失敗しました: %w", err)
	}

	return existing, nil
}

// Delete はIDで記事を削除する。
// 存在しない場合はPostNotFoundErrorを返す。
func (s *Service) Delete(ctx context.Context, id int64) error {
	existing, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("記事の取得に失敗しました: %w", err)
	}
	if existing == nil {
		return model.NewPostNotFoundError(id)
	}

	if err := s.postRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("記事の削除に失敗しました: %w", err)
	}

	slog.Info("post deleted",
		slog.Int64("post_id", id),
	)

	return nil
}
