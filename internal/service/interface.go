package service

import (
	"context"

	"tipjar-core/internal/model"
)

// TipLinkService 打赏链接生成与解析
type TipLinkService interface {
	// BuildURL 拼出带 query 参数的长链接，纯函数不落库
	// amount/message 可为空串，为空时不出现在链接里
	BuildURL(recipient, amount, message string) (string, error)

	// Shorten 生成并持久化一个短链接 code
	Shorten(ctx context.Context, recipient, amount, message string) (*model.TipLink, error)

	// Resolve 按 code 查回链接参数
	Resolve(ctx context.Context, code string) (*model.TipLink, error)
}
