package entity

import (
	"time"
)

// Transaction types.
const (
	TransactionTypeDirectPurchase = "direct-purchase"
	TransactionTypeAuctionWin     = "auction-win"
	TransactionTypeBulkOrder      = "bulk-order"
)

// Delivery statuses.
const (
	DeliveryStatusPending   = "pending"
	DeliveryStatusConfirmed = "confirmed"
	DeliveryStatusShipped   = "shipped"
	DeliveryStatusDelivered = "delivered"
	DeliveryStatusCancelled = "cancelled"
)

// Payment statuses.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

type DeliveryAddress struct {
	Street  string `json:"street" bson:"street"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	Pincode string `json:"pincode" bson:"pincode"`
	Phone   string `json:"phone" bson:"phone"`
}

type OrderDetails struct {
	ItemName        string          `json:"item_name" bson:"itemName"`
	Quantity        float64         `json:"quantity" bson:"quantity"`
	Unit            string          `json:"unit" bson:"unit"`
	PricePerUnit    float64         `json:"price_per_unit" bson:"pricePerUnit"`
	TotalAmount     float64         `json:"total_amount" bson:"totalAmount"`
	DeliveryAddress DeliveryAddress `json:"delivery_address" bson:"deliveryAddress"`
}

type Payment struct {
	Method         string     `json:"method" bson:"method"` // upi, bank-transfer, cod, escrow
	Status         string     `json:"status" bson:"status"`
	PaymentID      string     `json:"payment_id,omitempty" bson:"paymentId,omitempty"`
	PaidAt         *time.Time `json:"paid_at,omitempty" bson:"paidAt,omitempty"`
	EscrowReleased bool       `json:"escrow_released" bson:"escrowReleased"`
}

type Delivery struct {
	Status          string     `json:"status" bson:"status"`
	EstimatedDate   *time.Time `json:"estimated_date,omitempty" bson:"estimatedDate,omitempty"`
	ActualDate      *time.Time `json:"actual_date,omitempty" bson:"actualDate,omitempty"`
	TrackingID      string     `json:"tracking_id,omitempty" bson:"trackingId,omitempty"`
	DeliveryPartner string     `json:"delivery_partner,omitempty" bson:"deliveryPartner,omitempty"`
}

type CommunicationEntry struct {
	SenderID  string    `json:"sender_id" bson:"senderId"`
	Message   string    `json:"message" bson:"message"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	Type      string    `json:"type" bson:"type"` // message, status-update, system
}

// Dispute can be raised at most once per transaction.
type Dispute struct {
	IsDisputed bool       `json:"is_disputed" bson:"isDisputed"`
	Reason     string     `json:"reason,omitempty" bson:"reason,omitempty"`
	RaisedBy   string     `json:"raised_by,omitempty" bson:"raisedBy,omitempty"`
	RaisedAt   *time.Time `json:"raised_at,omitempty" bson:"raisedAt,omitempty"`
	Status     string     `json:"status,omitempty" bson:"status,omitempty"` // open, investigating, resolved, closed
	Resolution string     `json:"resolution,omitempty" bson:"resolution,omitempty"`
}

// Feedback fields are segregated by role: the buyer writes the buyer-side
// fields, the seller the seller-side ones.
type Feedback struct {
	BuyerRating  int    `json:"buyer_rating,omitempty" bson:"buyerRating,omitempty"`
	BuyerReview  string `json:"buyer_review,omitempty" bson:"buyerReview,omitempty"`
	SellerRating int    `json:"seller_rating,omitempty" bson:"sellerRating,omitempty"`
	SellerReview string `json:"seller_review,omitempty" bson:"sellerReview,omitempty"`
}

type Invoice struct {
	InvoiceNumber string  `json:"invoice_number,omitempty" bson:"invoiceNumber,omitempty"`
	GSTAmount     float64 `json:"gst_amount" bson:"gstAmount"`
	FinalAmount   float64 `json:"final_amount,omitempty" bson:"finalAmount,omitempty"`
}

type Transaction struct {
	ID            string               `json:"id" bson:"_id"`
	Type          string               `json:"type" bson:"type"`
	BuyerID       string               `json:"buyer_id" bson:"buyerId"`
	SellerID      string               `json:"seller_id" bson:"sellerId"`
	ProductID     string               `json:"product_id,omitempty" bson:"productId,omitempty"`
	AuctionID     string               `json:"auction_id,omitempty" bson:"auctionId,omitempty"`
	OrderDetails  OrderDetails         `json:"order_details" bson:"orderDetails"`
	Payment       Payment              `json:"payment" bson:"payment"`
	Delivery      Delivery             `json:"delivery" bson:"delivery"`
	Communication []CommunicationEntry `json:"communication" bson:"communication"`
	Dispute       Dispute              `json:"dispute" bson:"dispute"`
	Feedback      Feedback             `json:"feedback" bson:"feedback"`
	Invoice       Invoice              `json:"invoice" bson:"invoice"`
	Revision      int64                `json:"-" bson:"revision"`
	CreatedAt     time.Time            `json:"created_at" bson:"createdAt"`
	UpdatedAt     time.Time            `json:"updated_at" bson:"updatedAt"`
}

// IsParty reports whether userID is the buyer or the seller.
func (t *Transaction) IsParty(userID string) bool {
	return t.BuyerID == userID || t.SellerID == userID
}

// Counterparty returns the other side of the transaction.
func (t *Transaction) Counterparty(userID string) string {
	if t.BuyerID == userID {
		return t.SellerID
	}
	return t.BuyerID
}
