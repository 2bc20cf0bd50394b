package coupon

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	db "github.com/evscomercial/storefront-backend/db/sqlc"
	"github.com/evscomercial/storefront-backend/services/monitoring/logging"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	ChatDiscountPercentage int32 = 6
	ChatUsageLimit         int32 = 1
	ChatCouponValidity           = 30 * 24 * time.Hour
	IssueCooldown                = 24 * time.Hour
	DefaultAdminDiscount   int32 = 10
	DefaultAdminUsageLimit int32 = 100
)

type CouponService struct {
	store    *db.Store
	codes    *CodeEncoder
	logger   *logging.Logger
	validate *validator.Validate
	now      func() time.Time
}

func NewCouponService(store *db.Store, codes *CodeEncoder, logger *logging.Logger) *CouponService {
	return &CouponService{
		store:    store,
		codes:    codes,
		logger:   logger,
		validate: validator.New(),
		now:      time.Now,
	}
}

// IssueChatCoupon hands the user a single-use chat coupon, reusing the one they
// already hold if it is still open. A second request inside IssueCooldown of a
// granted one fails with *RateLimitError.
func (c *CouponService) IssueChatCoupon(ctx context.Context, userID uuid.UUID) (*IssueResult, error) {
	now := c.now()
	var result *IssueResult

	err := c.store.ExecTx(ctx, func(q *db.Queries) error {
		// serialises concurrent requests from the same user
		if err := q.LockUserCoupons(ctx, userID.String()); err != nil {
			return fmt.Errorf("lock user coupons: %w", err)
		}

		last, err := q.GetLatestGrantedDiscountRequest(ctx, db.GetLatestGrantedDiscountRequestParams{
			UserID:      userID,
			RequestedAt: now.Add(-IssueCooldown),
		})
		if err == nil {
			return NewRateLimitError(last.RequestedAt.Add(IssueCooldown).Sub(now))
		} else if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("latest discount request: %w", err)
		}

		existing, err := q.GetOpenChatCouponByCreator(ctx, userID)
		if err == nil {
			result = &IssueResult{Coupon: ToCouponModel(existing), Reused: true}
			return nil
		} else if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("open chat coupon: %w", err)
		}

		seq, err := q.NextCouponSequence(ctx)
		if err != nil {
			return fmt.Errorf("coupon sequence: %w", err)
		}
		code, err := c.codes.Encode(seq)
		if err != nil {
			return fmt.Errorf("encode coupon code: %w", err)
		}

		created, err := q.CreateCoupon(ctx, db.CreateCouponParams{
			Code:               code,
			DiscountPercentage: ChatDiscountPercentage,
			UsageLimit:         ChatUsageLimit,
			Source:             SourceChat,
			CreatedBy:          userID,
			ExpiresAt:          sql.NullTime{Time: now.Add(ChatCouponValidity), Valid: true},
		})
		if err != nil {
			return err
		}

		if _, err := q.CreateDiscountRequest(ctx, db.CreateDiscountRequestParams{
			UserID:     userID,
			WasGranted: true,
		}); err != nil {
			return fmt.Errorf("record discount request: %w", err)
		}

		result = &IssueResult{Coupon: ToCouponModel(created)}
		return nil
	})

	if db.IsUniqueViolation(err) {
		// another request won the race outside the advisory lock
		existing, findErr := c.store.GetOpenChatCouponByCreator(ctx, userID)
		if findErr != nil {
			return nil, fmt.Errorf("coupon created concurrently but not readable: %w", findErr)
		}
		return &IssueResult{Coupon: ToCouponModel(existing), Reused: true}, nil
	}
	if err != nil {
		var rateErr *RateLimitError
		if !errors.As(err, &rateErr) {
			c.logger.WithFields(logrus.Fields{"user_id": userID}).Error(fmt.Sprintf("coupon issue failed: %v", err))
		}
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"code":    result.Coupon.Code,
		"reused":  result.Reused,
	}).Info("chat coupon issued")

	return result, nil
}

// Validate looks a code up and reports whether it can be applied to an order.
func (c *CouponService) Validate(ctx context.Context, code string) (*CouponModel, error) {
	dbCoupon, err := c.store.GetCouponByCode(ctx, NormalizeCode(code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCouponNotFound
	} else if err != nil {
		return nil, err
	}

	coupon := ToCouponModel(dbCoupon)
	if err := coupon.Check(c.now()); err != nil {
		return nil, err
	}
	return coupon, nil
}

// Redeem consumes one use of code for the order identified by transactionID.
// It must run inside the transaction that records the order.
func Redeem(ctx context.Context, q *db.Queries, code string, userID, transactionID uuid.UUID) (*CouponModel, error) {
	code = NormalizeCode(code)
	redeemed, err := q.RedeemCoupon(ctx, code)
	if errors.Is(err, sql.ErrNoRows) {
		current, lookupErr := q.GetCouponByCode(ctx, code)
		if errors.Is(lookupErr, sql.ErrNoRows) {
			return nil, ErrCouponNotFound
		} else if lookupErr != nil {
			return nil, lookupErr
		}
		if reason := ToCouponModel(current).Check(time.Now()); reason != nil {
			return nil, reason
		}
		return nil, ErrCouponExhausted
	} else if err != nil {
		return nil, fmt.Errorf("redeem coupon: %w", err)
	}

	if err := q.CreateCouponRedemption(ctx, db.CreateCouponRedemptionParams{
		CouponID:      redeemed.ID,
		UserID:        userID,
		TransactionID: transactionID,
	}); err != nil {
		return nil, fmt.Errorf("record coupon redemption: %w", err)
	}

	return ToCouponModel(redeemed), nil
}

type CreateParams struct {
	Code               string     `validate:"omitempty,min=4,max=32,alphanumunicode"`
	DiscountPercentage int32      `validate:"min=1,max=100"`
	UsageLimit         int32      `validate:"min=1"`
	ExpiresAt          *time.Time `validate:"-"`
}

// CreateCoupon issues an admin coupon. Zero values fall back to a 10% coupon
// usable 100 times.
func (c *CouponService) CreateCoupon(ctx context.Context, createdBy uuid.UUID, params CreateParams) (*CouponModel, error) {
	if params.DiscountPercentage == 0 {
		params.DiscountPercentage = DefaultAdminDiscount
	}
	if params.UsageLimit == 0 {
		params.UsageLimit = DefaultAdminUsageLimit
	}
	params.Code = NormalizeCode(params.Code)

	if err := c.validate.Struct(params); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCouponParams, err)
	}
	if params.ExpiresAt != nil && !params.ExpiresAt.After(c.now()) {
		return nil, fmt.Errorf("%w: expires_at must be in the future", ErrInvalidCouponParams)
	}

	var created db.Coupon
	err := c.store.ExecTx(ctx, func(q *db.Queries) error {
		code := params.Code
		if code == "" {
			seq, err := q.NextCouponSequence(ctx)
			if err != nil {
				return err
			}
			if code, err = c.codes.Encode(seq); err != nil {
				return err
			}
		}

		expires := sql.NullTime{}
		if params.ExpiresAt != nil {
			expires = sql.NullTime{Time: *params.ExpiresAt, Valid: true}
		}

		var err error
		created, err = q.CreateCoupon(ctx, db.CreateCouponParams{
			Code:               code,
			DiscountPercentage: params.DiscountPercentage,
			UsageLimit:         params.UsageLimit,
			Source:             SourceAdmin,
			CreatedBy:          createdBy,
			ExpiresAt:          expires,
		})
		return err
	})
	if db.IsUniqueViolation(err) {
		return nil, ErrCouponCodeTaken
	} else if err != nil {
		return nil, err
	}

	return ToCouponModel(created), nil
}

func (c *CouponService) ListCoupons(ctx context.Context, limit, offset int32) ([]*CouponModel, error) {
	coupons, err := c.store.ListCoupons(ctx, db.ListCouponsParams{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return ToCouponModels(coupons), nil
}

// DeactivateExpired switches off every coupon whose expiry has passed.
func (c *CouponService) DeactivateExpired(ctx context.Context) (int64, error) {
	n, err := c.store.DeactivateExpiredCoupons(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		c.logger.Info(fmt.Sprintf("deactivated %d expired coupons", n))
	}
	return n, nil
}
