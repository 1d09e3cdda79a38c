package payment

import "time"

type Payment struct {
	ID            int       `db:"id" json:"id"`
	MemberID      int       `db:"member_id" json:"member_id"`
	MembershipID  *int      `db:"membership_id" json:"membership_id,omitempty"`
	Amount        float64   `db:"amount" json:"amount"`
	PaymentMethod string    `db:"payment_method" json:"payment_method"`
	InvoiceNumber string    `db:"invoice_number" json:"invoice_number"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type PaymentWithMember struct {
	Payment
	FirstName string  `db:"first_name" json:"first_name"`
	LastName  string  `db:"last_name" json:"last_name"`
	Email     *string `db:"email" json:"email,omitempty"`
}

type CreatePaymentRequest struct {
	MemberID      int     `json:"member_id" binding:"required"`
	PlanID        *int    `json:"plan_id"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	PaymentMethod string  `json:"payment_method" binding:"required"`
}

type CreatePaymentResponse struct {
	ID            int    `json:"id"`
	InvoiceNumber string `json:"invoice_number"`
	Message       string `json:"message"`
}

type InitiateCheckoutRequest struct {
	MemberID int `json:"member_id" binding:"required"`
	PlanID   int `json:"plan_id" binding:"required"`
}

// CheckoutParams are the signed fields the client forwards to the PayHere
// redirect checkout.
type CheckoutParams struct {
	MerchantID string `json:"merchant_id"`
	OrderID    string `json:"order_id"`
	Items      string `json:"items"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
	Hash       string `json:"hash"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Custom1    string `json:"custom_1"`
	Custom2    string `json:"custom_2"`
}
