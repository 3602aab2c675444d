package user

import (
	"context"
)

type Repository interface {
	FindByLoginID(ctx context.Context, loginID string) (User, error)
	FindByKakaoID(ctx context.Context, kakaoID string) (User, error)
	FindByAppleID(ctx context.Context, appleID string) (User, error)
}
