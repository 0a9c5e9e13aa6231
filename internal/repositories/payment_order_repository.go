package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"shabdashri/internal/models/db_models"
)

// PaymentOrderUpdate is a status-affecting write. Pointer fields are written
// only when set; ClearFailureReason nulls out a stale reason on a
// success/authorized transition.
type PaymentOrderUpdate struct {
	Status             db_models.PaymentStatus
	PaymentID          *string
	Signature          *string
	FailureReason      *string
	ClearFailureReason bool
	AuditPayload       datatypes.JSON
}

type IPaymentOrderRepository interface {
	Create(ctx context.Context, order *db_models.PaymentOrder) error
	GetByPublicToken(ctx context.Context, token string) (*db_models.PaymentOrder, error)
	GetByRazorpayOrderID(ctx context.Context, razorpayOrderID string) (*db_models.PaymentOrder, error)
	// ApplyUpdate writes the update for the given row id. Returns false when
	// the success guard skipped the write (stored status is already success
	// and the incoming status is not).
	ApplyUpdate(ctx context.Context, id uuid.UUID, update PaymentOrderUpdate) (bool, error)
	// ApplyUpdateByRazorpayOrderID is the webhook path: rows affected may be
	// zero either because no local order matches or because the guard held.
	ApplyUpdateByRazorpayOrderID(ctx context.Context, razorpayOrderID string, update PaymentOrderUpdate) (int64, error)
}

type PaymentOrderRepository struct {
	db *gorm.DB
}

func NewPaymentOrderRepository(db *gorm.DB) IPaymentOrderRepository {
	return &PaymentOrderRepository{db: db}
}

func (r *PaymentOrderRepository) Create(ctx context.Context, order *db_models.PaymentOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *PaymentOrderRepository) GetByPublicToken(ctx context.Context, token string) (*db_models.PaymentOrder, error) {
	var order db_models.PaymentOrder
	err := r.db.WithContext(ctx).First(&order, "public_token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *PaymentOrderRepository) GetByRazorpayOrderID(ctx context.Context, razorpayOrderID string) (*db_models.PaymentOrder, error) {
	var order db_models.PaymentOrder
	err := r.db.WithContext(ctx).First(&order, "razorpay_order_id = ?", razorpayOrderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *PaymentOrderRepository) ApplyUpdate(ctx context.Context, id uuid.UUID, update PaymentOrderUpdate) (bool, error) {
	res := r.guarded(ctx, update).Where("id = ?", id).Updates(update.values())
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PaymentOrderRepository) ApplyUpdateByRazorpayOrderID(ctx context.Context, razorpayOrderID string, update PaymentOrderUpdate) (int64, error) {
	res := r.guarded(ctx, update).Where("razorpay_order_id = ?", razorpayOrderID).Updates(update.values())
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// guarded applies the monotone-success rule in the UPDATE itself so a webhook
// and a client submission racing on the same row cannot regress success.
func (r *PaymentOrderRepository) guarded(ctx context.Context, update PaymentOrderUpdate) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&db_models.PaymentOrder{})
	if update.Status != db_models.PaymentStatusSuccess {
		tx = tx.Where("status <> ?", db_models.PaymentStatusSuccess)
	}
	return tx
}

func (u PaymentOrderUpdate) values() map[string]interface{} {
	values := map[string]interface{}{
		"status": u.Status,
	}
	if u.AuditPayload != nil {
		values["gateway_payload"] = u.AuditPayload
	}
	if u.PaymentID != nil {
		values["razorpay_payment_id"] = *u.PaymentID
	}
	if u.Signature != nil {
		values["razorpay_signature"] = *u.Signature
	}
	if u.FailureReason != nil {
		values["failure_reason"] = *u.FailureReason
	} else if u.ClearFailureReason {
		values["failure_reason"] = nil
	}
	return values
}
