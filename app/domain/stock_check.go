package domain

import (
	"context"
	"encoding/json"
	"fmt"
)

// StockCheckEvent is the payload carried on ProductQueueName. The numeric
// fields are pointers so a missing key is distinguishable from zero.
type StockCheckEvent struct {
	Name            string `json:"name"`
	Quantity        *int64 `json:"quantity"`
	MinimumQuantity *int64 `json:"minimum_quantity"`
	CompanyID       *int64 `json:"company_id"`
}

func NewStockCheckEvent(p Product) StockCheckEvent {
	qty, minQty, companyID := p.Qty, p.QtyMin, p.CompanyID
	return StockCheckEvent{
		Name:            p.Name,
		Quantity:        &qty,
		MinimumQuantity: &minQty,
		CompanyID:       &companyID,
	}
}

func DecodeStockCheckEvent(payload []byte) (StockCheckEvent, error) {
	var ev StockCheckEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return StockCheckEvent{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	return ev, nil
}

func (e StockCheckEvent) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Complete reports whether quantity, minimum quantity and company id are all present.
func (e StockCheckEvent) Complete() bool {
	return e.Quantity != nil && e.MinimumQuantity != nil && e.CompanyID != nil
}

// IsLowStock is inclusive: a quantity equal to the minimum is low.
func (e StockCheckEvent) IsLowStock() bool {
	if !e.Complete() {
		return false
	}
	return *e.Quantity <= *e.MinimumQuantity
}

type StockCheckProducer interface {
	Enqueue(ctx context.Context, product Product)
}

type Notifier interface {
	Notify(ctx context.Context, event StockCheckEvent) error
}
