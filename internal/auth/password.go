package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher はパスワードのハッシュ化と検証のインターフェース。
// ドメイン層をアルゴリズム実装から分離する。
type PasswordHasher interface {
	// Hash は平文パスワードからソルト付きハッシュを生成する。
	// 同一の平文でも呼び出しごとに異なるハッシュ文字列を返す。
	Hash(password string) (string, error)

	// Verify は平文パスワードがハッシュと一致するかを返す。
	// 不正な形式のハッシュに対してはpanicせずfalseを返す。
	Verify(password, hash string) bool
}

// BcryptHasher はbcryptによるPasswordHasherの実装。
// ソルトはbcryptがハッシュごとに生成し、出力文字列に埋め込まれる。
// 比較はbcrypt内部の定数時間比較で行われる。
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher はデフォルトコストのBcryptHasherを生成する。
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

// Hash は平文パスワードをbcryptでハッシュ化する。
// 失敗するのはパスワードが72バイトを超える場合などの設定・入力異常のみで、
// 通常運用では発生しない。
func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify は平文パスワードをハッシュと照合する。
// ハッシュ文字列に埋め込まれたソルトとコストで再計算して比較する。
func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// compile-time interface check
var _ PasswordHasher = (*BcryptHasher)(nil)
