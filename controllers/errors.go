package controllers

import (
	"errors"

	"go-oms/api"
	"go-oms/utils"
)

// ErrEmptyCart is returned when an order is placed from an empty cart.
var ErrEmptyCart = errors.New("cart is empty")

// Failure is a user action that did not go through, with the message to show.
type Failure struct {
	Message string
	Err     error
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Message picks the text to show for err.
func Message(err error) string {
	var f *Failure
	if errors.As(err, &f) {
		return f.Message
	}
	return err.Error()
}

// fail wraps err for display: client-side validation shows its own message,
// server rejections show the server's message when present, else fallback.
func fail(err error, fallback string) error {
	var verr *utils.ValidationError
	if errors.As(err, &verr) {
		return &Failure{Message: verr.Message, Err: err}
	}
	return &Failure{Message: api.MessageOr(err, fallback), Err: err}
}

func invalid(msg string) error {
	return fail(utils.Invalid(msg), msg)
}
