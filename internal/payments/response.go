package payments

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/nickredmond/lambda-ambr-payment-service/internal/auction"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/auth"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/funding"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/identity"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/ledger"
	"github.com/nickredmond/lambda-ambr-payment-service/internal/viewing"
)

const contentTypeJSON = "application/json"

// Emit renders the outcome of Submit as a gateway response. A nil err
// produces the 200 success body.
func Emit(req Request, res Result, err error) Response {
	if err == nil {
		return respond(http.StatusOK, successBody{
			HighestBidAmount:    res.HighestBidAmount,
			IsHighestBid:        res.IsHighestBid,
			IsPermissionExpires: res.IsPermissionExpires,
		})
	}

	var userID string
	var failure *Failure
	if errors.As(err, &failure) {
		userID = failure.UserID
	}

	switch {
	case errors.Is(err, ErrMissingToken):
		return respond(http.StatusUnauthorized, "No user token provided!")
	case errors.Is(err, ErrInvalidRequest):
		return respond(http.StatusBadRequest, "Invalid payment request: "+causeOf(err))
	case errors.Is(err, ErrDecryptConnection):
		return respond(http.StatusInternalServerError, "ERROR decrypting database connection string.")
	case errors.Is(err, ErrConnectStore):
		return respond(http.StatusInternalServerError, "ERROR connecting to database.")
	case errors.Is(err, ErrDecryptTokenKey):
		return respond(http.StatusInternalServerError, "ERROR decrypting user token key.")
	case errors.Is(err, auth.ErrMissingIdentity):
		return respond(http.StatusBadRequest, "User token does not identify a user.")
	case errors.Is(err, auth.ErrInvalidToken):
		return respond(http.StatusBadRequest, "Invalid user token.")
	case errors.Is(err, ErrFindUser) && errors.Is(err, identity.ErrUserNotFound):
		return respond(http.StatusBadRequest, "No user found during payment.")
	case errors.Is(err, ErrFindUser):
		return respond(http.StatusInternalServerError, "ERROR retrieving user information during payment.")
	case errors.Is(err, ErrDecryptProcessorKey):
		return respond(http.StatusInternalServerError, "ERROR decrypting payment processor key.")
	case errors.Is(err, funding.ErrMissingPaymentMethod):
		return respond(http.StatusBadRequest, "No payment method token provided.")
	case errors.Is(err, funding.ErrCardDeclined):
		return respond(http.StatusBadRequest, map[string]bool{"isCardDeclined": true})
	case errors.Is(err, funding.ErrRateLimited):
		return respond(http.StatusInternalServerError, map[string]bool{"isRateLimitTooHigh": true})
	case errors.Is(err, funding.ErrSaveCard):
		return respond(http.StatusInternalServerError, map[string]bool{"isErrorSavingNewCard": true})
	case errors.Is(err, funding.ErrProcessorUnknown), errors.Is(err, ErrPaymentMethod):
		return respond(http.StatusInternalServerError, map[string]bool{"isUnknownError": true})
	case errors.Is(err, ErrSavePayment):
		return respond(http.StatusInternalServerError, "ERROR saving payment submission.")
	case errors.Is(err, ErrFindAuction) && errors.Is(err, auction.ErrNotFound):
		return respond(http.StatusBadRequest, fmt.Sprintf("No auction found for id %s.", req.AuctionID))
	case errors.Is(err, ErrFindAuction):
		return respond(http.StatusInternalServerError, "ERROR finding auction by id "+req.AuctionID)
	case errors.Is(err, ErrSetHighestBid):
		return respond(http.StatusInternalServerError,
			fmt.Sprintf("ERROR setting highest bid [userId:%s, amount:%d]", userID, req.PaymentAmount))
	case errors.Is(err, viewing.ErrPersistPermission), errors.Is(err, ErrUpdatePermissions):
		return respond(http.StatusInternalServerError, "ERROR updating user's permissions to view bids.")
	case errors.Is(err, ledger.ErrPersistence):
		return respond(http.StatusInternalServerError, "ERROR saving payment submission.")
	default:
		return respond(http.StatusInternalServerError, "ERROR processing payment.")
	}
}

// respond builds the envelope. Strings are sent as-is, anything else is
// JSON encoded.
func respond(status int, body any) Response {
	var text string
	switch b := body.(type) {
	case string:
		text = b
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			status = http.StatusInternalServerError
			raw = []byte(`{"isUnknownError":true}`)
		}
		text = string(raw)
	}
	return Response{
		IsBase64Encoded: false,
		StatusCode:      status,
		Headers:         map[string]string{"Content-Type": contentTypeJSON},
		Body:            text,
	}
}

func causeOf(err error) string {
	var failure *Failure
	if errors.As(err, &failure) && failure.Err != nil {
		return failure.Err.Error()
	}
	return err.Error()
}
