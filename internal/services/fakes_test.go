package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"shabdashri/internal/models/db_models"
	"shabdashri/internal/repositories"
)

// fakeOrderRepo is an in-memory order store honoring the same
// success-monotone guard as the gorm implementation.
type fakeOrderRepo struct {
	orders map[uuid.UUID]*db_models.PaymentOrder
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*db_models.PaymentOrder)}
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *db_models.PaymentOrder) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.PublicToken == "" {
		order.PublicToken = uuid.NewString()
	}
	now := time.Now().Unix()
	order.CreatedAt = now
	order.UpdatedAt = now
	copied := *order
	f.orders[order.ID] = &copied
	return nil
}

func (f *fakeOrderRepo) GetByPublicToken(ctx context.Context, token string) (*db_models.PaymentOrder, error) {
	for _, order := range f.orders {
		if order.PublicToken == token {
			copied := *order
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeOrderRepo) GetByRazorpayOrderID(ctx context.Context, razorpayOrderID string) (*db_models.PaymentOrder, error) {
	for _, order := range f.orders {
		if order.RazorpayOrderID == razorpayOrderID {
			copied := *order
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeOrderRepo) ApplyUpdate(ctx context.Context, id uuid.UUID, update repositories.PaymentOrderUpdate) (bool, error) {
	order, ok := f.orders[id]
	if !ok {
		return false, nil
	}
	if order.Status == db_models.PaymentStatusSuccess && update.Status != db_models.PaymentStatusSuccess {
		return false, nil
	}
	applyUpdate(order, update)
	return true, nil
}

func (f *fakeOrderRepo) ApplyUpdateByRazorpayOrderID(ctx context.Context, razorpayOrderID string, update repositories.PaymentOrderUpdate) (int64, error) {
	var rows int64
	for _, order := range f.orders {
		if order.RazorpayOrderID != razorpayOrderID {
			continue
		}
		if order.Status == db_models.PaymentStatusSuccess && update.Status != db_models.PaymentStatusSuccess {
			continue
		}
		applyUpdate(order, update)
		rows++
	}
	return rows, nil
}

func applyUpdate(order *db_models.PaymentOrder, update repositories.PaymentOrderUpdate) {
	order.Status = update.Status
	if update.PaymentID != nil {
		id := *update.PaymentID
		order.RazorpayPaymentID = &id
	}
	if update.Signature != nil {
		sig := *update.Signature
		order.RazorpaySignature = &sig
	}
	if update.FailureReason != nil {
		reason := *update.FailureReason
		order.FailureReason = &reason
	} else if update.ClearFailureReason {
		order.FailureReason = nil
	}
	if update.AuditPayload != nil {
		order.GatewayPayload = update.AuditPayload
	}
	order.UpdatedAt = time.Now().Unix()
}

type fakeProductRepo struct {
	products map[string]*db_models.Product
}

func newFakeProductRepo(products ...*db_models.Product) *fakeProductRepo {
	repo := &fakeProductRepo{products: make(map[string]*db_models.Product)}
	for _, p := range products {
		repo.products[p.ID.String()] = p
	}
	return repo
}

func (f *fakeProductRepo) GetProductByID(ctx context.Context, productID string) (*db_models.Product, error) {
	return f.products[productID], nil
}

type fakeGateway struct {
	order     *GatewayOrder
	createErr error
	payments  []GatewayPayment
	listErr   error

	createCalls int
	listCalls   int
}

func (f *fakeGateway) CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string, notes map[string]interface{}) (*GatewayOrder, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.order, nil
}

func (f *fakeGateway) ListOrderPayments(ctx context.Context, razorpayOrderID string) ([]GatewayPayment, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.payments, nil
}
