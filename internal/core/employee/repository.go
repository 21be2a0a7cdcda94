package employee

import "context"

// Repository は社員レコードの読み込み元の抽象です。
// 実装はファイルやデータベースから全社員を読み出し、検証済みの値を返します。
type Repository interface {
	ListAll(ctx context.Context) ([]Employee, error)
}
