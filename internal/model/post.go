package model

import "time"

// Post はブログ記事を表す。
// Contentは保存前にサニタイズ済みのHTMLを保持する。
type Post struct {
	ID          int64
	Title       string
	Content     string
	IsPublished bool
	CreatedAt   time.Time
}
