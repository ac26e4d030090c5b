package identity

import "time"

// User is the account record a verified token resolves to. Payment methods
// and bid-view permissions are embedded in the record.
type User struct {
	ID                 string
	Email              string
	PaymentMethods     []PaymentMethod
	BidViewPermissions []BidViewPermission
}

// PaymentMethod references a stored instrument at the payment processor.
type PaymentMethod struct {
	TokenID        string `json:"tokenId"`
	LastFourDigits string `json:"lastFourDigits"`
	CardBrand      string `json:"cardBrand"`
}

// BidViewPermission lets a user view bid details for one auction. A nil
// Expiry never expires.
type BidViewPermission struct {
	AuctionID string     `json:"auctionId"`
	Expiry    *time.Time `json:"expiry"`
}

// Expired reports whether the permission has lapsed at t.
func (p BidViewPermission) Expired(t time.Time) bool {
	return p.Expiry != nil && !t.Before(*p.Expiry)
}
