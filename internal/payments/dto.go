package payments

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nickredmond/lambda-ambr-payment-service/internal/auction"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/identity"
)

// Request is the inbound payment submission.
type Request struct {
	UserToken          string        `json:"userToken"`
	IsNewPaymentMethod bool          `json:"isNewPaymentMethod"`
	PaymentMethod      PaymentMethod `json:"paymentMethod"`
	BidType            string        `json:"bidType"`
	AuctionID          string        `json:"auctionId"`
	PaymentAmount      int64         `json:"paymentAmount"`
}

// PaymentMethod is the card reference supplied by the client. For a new
// method TokenID is a processor card token, otherwise a customer id.
type PaymentMethod struct {
	TokenID        string `json:"tokenId"`
	LastFourDigits string `json:"lastFourDigits"`
	CardBrand      string `json:"cardBrand"`
}

// Response is the envelope returned to the calling gateway.
type Response struct {
	IsBase64Encoded bool              `json:"isBase64Encoded"`
	StatusCode      int               `json:"statusCode"`
	Headers         map[string]string `json:"headers"`
	Body            string            `json:"body"`
}

type successBody struct {
	HighestBidAmount    int64 `json:"highestBidAmount"`
	IsHighestBid        bool  `json:"isHighestBid"`
	IsPermissionExpires bool  `json:"isPermissionExpires"`
}

// DecodeRequest parses a raw JSON event. Amounts must be whole numbers of
// the smallest currency unit, so a fractional amount is a decode error.
func DecodeRequest(payload []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		return Request{}, fmt.Errorf("malformed request body: %w", err)
	}
	return req, nil
}

func (r Request) validate() error {
	if !auction.BidType(r.BidType).Valid() {
		return fmt.Errorf("%w: %q", auction.ErrInvalidBidType, r.BidType)
	}
	if strings.TrimSpace(r.AuctionID) == "" {
		return errors.New("auctionId is required")
	}
	if r.PaymentAmount <= 0 {
		return errors.New("paymentAmount must be positive")
	}
	return nil
}

func (m PaymentMethod) toIdentity() identity.PaymentMethod {
	return identity.PaymentMethod{TokenID: m.TokenID, LastFourDigits: m.LastFourDigits, CardBrand: m.CardBrand}
}
