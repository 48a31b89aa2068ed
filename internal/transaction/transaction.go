package transaction

import (
	"time"

	transactionDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/transaction"
)

const (
	PaymentMethodCash     = "cash"
	PaymentMethodTransfer = "transfer"
	PaymentMethodQRIS     = "qris"
)

type Transaction struct {
	ID            int64     `json:"id"`
	CustomerID    *int64    `json:"customer_id,omitempty"`
	CustomerName  string    `json:"customer_name,omitempty"`
	CustomerPhone string    `json:"customer_phone,omitempty"`
	VehiclePlate  string    `json:"vehicle_plate,omitempty"`
	EmployeeID    *int64    `json:"employee_id,omitempty"`
	Date          time.Time `json:"date"`
	Total         int64     `json:"total"`
	PaymentMethod string    `json:"payment_method"`
	Status        Status    `json:"status"`
	Notes         string    `json:"notes,omitempty"`
	TrackingCode  string    `json:"tracking_code,omitempty"`
	CreatedBy     *int64    `json:"created_by,omitempty"`
	Items         []Item    `json:"items"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Item struct {
	ID          int64  `json:"id"`
	ServiceID   int64  `json:"service_id"`
	ServiceName string `json:"service_name,omitempty"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`
	Discount    int64  `json:"discount"`
	Subtotal    int64  `json:"subtotal"`
}

// Subtotal is price times quantity minus the line discount.
func Subtotal(price int64, quantity int, discount int64) int64 {
	return price*int64(quantity) - discount
}

// ServiceNames lists the item service names in line order.
func (t *Transaction) ServiceNames() []string {
	names := make([]string, 0, len(t.Items))
	for _, it := range t.Items {
		names = append(names, it.ServiceName)
	}
	return names
}

// PublicView is what a customer sees when looking up a tracking code.
type PublicView struct {
	TrackingCode string    `json:"tracking_code"`
	Status       Status    `json:"status"`
	Services     []string  `json:"services"`
	Total        int64     `json:"total"`
	Date         time.Time `json:"date"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (t *Transaction) PublicView() *PublicView {
	return &PublicView{
		TrackingCode: t.TrackingCode,
		Status:       t.Status,
		Services:     t.ServiceNames(),
		Total:        t.Total,
		Date:         t.Date,
		UpdatedAt:    t.UpdatedAt,
	}
}

func FromDataModel(t *transactionDatamodel.Transaction) *Transaction {
	out := &Transaction{
		ID:            t.ID,
		CustomerID:    t.CustomerID,
		EmployeeID:    t.EmployeeID,
		Date:          t.Date,
		Total:         t.Total,
		PaymentMethod: t.PaymentMethod,
		Status:        Status(t.Status),
		Notes:         t.Notes,
		CreatedBy:     t.CreatedBy,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
		Items:         make([]Item, 0, len(t.Items)),
	}
	if t.TrackingCode != nil {
		out.TrackingCode = *t.TrackingCode
	}
	if t.Customer != nil {
		out.CustomerName = t.Customer.Name
		out.CustomerPhone = t.Customer.Phone
		out.VehiclePlate = t.Customer.VehiclePlate
	}
	for _, it := range t.Items {
		item := Item{
			ID:        it.ID,
			ServiceID: it.ServiceID,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Discount:  it.Discount,
			Subtotal:  Subtotal(it.Price, it.Quantity, it.Discount),
		}
		if it.Service != nil {
			item.ServiceName = it.Service.Name
		}
		out.Items = append(out.Items, item)
	}
	return out
}
