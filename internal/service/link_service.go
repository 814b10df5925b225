package service

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"gorm.io/gorm"

	"tipjar-core/internal/model"
	"tipjar-core/pkg/crypto_util"
	"tipjar-core/pkg/errno"
	"tipjar-core/pkg/safe_random"
)

// codeLength 短链接 code 长度 (blake3 十六进制前缀)
const codeLength = 10

// LinkService 实现 TipLinkService。
// 长链接是纯拼接；短链接的 code 用 blake3(参数+随机盐) 派生后落库。
type LinkService struct {
	db      *gorm.DB
	baseURL string
}

func NewLinkService(db *gorm.DB, baseURL string) *LinkService {
	return &LinkService{db: db, baseURL: strings.TrimRight(baseURL, "/")}
}

// BuildURL 把收款人和可选的建议金额/留言编码成应用自己的 URL query
func (s *LinkService) BuildURL(recipient, amount, message string) (string, error) {
	if recipient == "" {
		return "", errno.ErrInvalidRecipient
	}

	params := url.Values{}
	params.Set("recipient", recipient)
	if amount != "" {
		params.Set("amount", amount)
	}
	if message != "" {
		params.Set("message", message)
	}
	return s.baseURL + "/?" + params.Encode(), nil
}

// Shorten 派生并保存短链接。
// code 对参数加随机盐哈希，同样的参数可以生成多个互不冲突的链接。
func (s *LinkService) Shorten(ctx context.Context, recipient, amount, message string) (*model.TipLink, error) {
	if recipient == "" {
		return nil, errno.ErrInvalidRecipient
	}
	if s.db == nil {
		return nil, errno.ErrDatabase.WithMessage("link storage is not configured")
	}

	// 唯一索引冲突时换盐重试，三次都撞上说明出了别的问题
	for attempt := 0; attempt < 3; attempt++ {
		salt, err := safe_random.GenerateRandomBytes(16)
		if err != nil {
			return nil, err
		}
		seed := append([]byte(recipient+"|"+amount+"|"+message+"|"), salt...)
		code := crypto_util.CalculateBlake3(seed)[:codeLength]

		link := &model.TipLink{
			Code:      code,
			Recipient: recipient,
			Amount:    amount,
			Message:   message,
		}
		err = s.db.WithContext(ctx).Create(link).Error
		if err == nil {
			return link, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errno.ErrDatabase.WithMessage(err.Error())
		}
	}
	return nil, errno.ErrDatabase.WithMessage("could not allocate a unique link code")
}

// Resolve 按 code 查回链接，软删除的视同不存在
func (s *LinkService) Resolve(ctx context.Context, code string) (*model.TipLink, error) {
	if s.db == nil {
		return nil, errno.ErrDatabase.WithMessage("link storage is not configured")
	}
	var link model.TipLink
	err := s.db.WithContext(ctx).Where("code = ?", code).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errno.ErrLinkNotFound
		}
		return nil, errno.ErrDatabase.WithMessage(err.Error())
	}
	return &link, nil
}
