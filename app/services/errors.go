package services

import "errors"

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// login responses never reveal which one it was.
	ErrInvalidCredentials = errors.New("services: invalid credentials")

	// ErrEmailTaken is returned when registration hits an existing email.
	ErrEmailTaken = errors.New("services: email already registered")

	// ErrTokenInvalid is returned for an unknown or expired verification token.
	ErrTokenInvalid = errors.New("services: invalid or expired token")

	// ErrUnknownProduct is returned when a cart references a product that is
	// not in the catalog.
	ErrUnknownProduct = errors.New("services: unknown product in cart")

	// ErrTotalMismatch is returned when the client-submitted total does not
	// match the server-recomputed total.
	ErrTotalMismatch = errors.New("services: order total does not match catalog prices")

	// ErrInvalidSession is returned when a checkout session is unpaid,
	// unknown, or bound to a different user.
	ErrInvalidSession = errors.New("services: invalid or unpaid checkout session")

	// ErrPaymentUnavailable is returned when the payment processor is not
	// configured.
	ErrPaymentUnavailable = errors.New("services: payment processor unavailable")

	// ErrUnsupportedImage is returned for uploads with a file extension
	// outside the allowed image set.
	ErrUnsupportedImage = errors.New("services: unsupported image type")

	// ErrInvalidStatus is returned for a status value outside the enum.
	ErrInvalidStatus = errors.New("services: invalid order status")

	// ErrIllegalTransition is returned for a status change the lifecycle
	// does not permit.
	ErrIllegalTransition = errors.New("services: illegal status transition")
)
