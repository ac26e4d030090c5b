package payments

import "errors"

// Stage sentinels. Every error returned by Service.Submit is a *Failure
// carrying exactly one of these.
var (
	ErrMissingToken        = errors.New("no user token provided")
	ErrInvalidRequest      = errors.New("invalid payment request")
	ErrDecryptConnection   = errors.New("decrypt database connection string")
	ErrConnectStore        = errors.New("connect to database")
	ErrDecryptTokenKey     = errors.New("decrypt token key")
	ErrAuthenticate        = errors.New("authenticate user")
	ErrFindUser            = errors.New("find user")
	ErrDecryptProcessorKey = errors.New("decrypt processor key")
	ErrPaymentMethod       = errors.New("ensure payment method")
	ErrSavePayment         = errors.New("save payment submission")
	ErrFindAuction         = errors.New("find auction")
	ErrSetHighestBid       = errors.New("set highest bid")
	ErrUpdatePermissions   = errors.New("update bid view permissions")
)

// Failure records the stage a request stopped at and why.
type Failure struct {
	Stage  error
	UserID string
	Err    error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Stage.Error()
	}
	return f.Stage.Error() + ": " + f.Err.Error()
}

// Unwrap exposes both the stage and the cause to errors.Is.
func (f *Failure) Unwrap() []error {
	if f.Err == nil {
		return []error{f.Stage}
	}
	return []error{f.Stage, f.Err}
}

func fail(stage error, userID string, err error) *Failure {
	return &Failure{Stage: stage, UserID: userID, Err: err}
}
