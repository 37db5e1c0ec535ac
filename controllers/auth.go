package controllers

import (
	"context"
	"fmt"
	"strings"

	"go-oms/api"
	"go-oms/models"
	"go-oms/routes"
	"go-oms/session"
	"go-oms/utils"

	"go.uber.org/zap"
)

// AuthAPI is the part of the backend the sign-in screens use.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
	Register(ctx context.Context, r api.Registration) (*api.AuthResponse, error)
	GoogleLogin(ctx context.Context, credential string) (*api.AuthResponse, error)
	SendOTP(ctx context.Context, phone string) error
	LoginOTP(ctx context.Context, phone, otp string) (*api.AuthResponse, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, password string) error
}

// SignedIn is the outcome of a successful authentication.
type SignedIn struct {
	Session session.Session
	Home    string
	Message string
}

// Auth handles the authentication flows
type Auth struct {
	api      AuthAPI
	sessions *session.Store
	logger   *zap.Logger
}

// NewAuth creates an Auth controller.
func NewAuth(a AuthAPI, sessions *session.Store, logger *zap.Logger) *Auth {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auth{api: a, sessions: sessions, logger: logger}
}

func (a *Auth) signIn(resp *api.AuthResponse, welcome, fallback string) (*SignedIn, error) {
	sess, err := a.sessions.SignIn(resp.Token)
	if err != nil {
		a.logger.Warn("backend returned an unusable credential", zap.Error(err))
		return nil, fail(err, fallback)
	}
	return &SignedIn{
		Session: sess,
		Home:    routes.Home(sess.Role),
		Message: fmt.Sprintf(welcome, resp.Name),
	}, nil
}

// Login signs in with email and password.
func (a *Auth) Login(ctx context.Context, email, password string) (*SignedIn, error) {
	const fallback = "Login failed. Please check your credentials."
	switch {
	case utils.Blank(email) && utils.Blank(password):
		return nil, invalid("Please enter email and password.")
	case utils.Blank(email):
		return nil, invalid("Please enter your email address.")
	case !utils.ValidEmail(email):
		return nil, invalid("Please enter a valid email address.")
	case utils.Blank(password):
		return nil, invalid("Please enter your password.")
	}

	resp, err := a.api.Login(ctx, email, password)
	if err != nil {
		msg := api.MessageOr(err, "")
		if msg == "Invalid credentials" || msg == "User not found" {
			return nil, &Failure{Message: "Invalid email or password. Please try again.", Err: err}
		}
		return nil, fail(err, fallback)
	}
	return a.signIn(resp, "Welcome back, %s! Login successful.", fallback)
}

var registrationMessages = utils.Messages{
	"Name":              "Please enter your name.",
	"Email.notblank":    "Please enter your email address.",
	"Email.email":       "Please enter a valid email address.",
	"Password.required": "Please enter a password.",
	"Password.min":      "Password must be at least 6 characters long.",
	"PhoneNumber":       "Please enter your phone number.",
	"Location":          "Please enter your location.",
}

// Register creates an account and signs it in.
func (a *Auth) Register(ctx context.Context, r api.Registration) (*SignedIn, error) {
	const fallback = "Registration failed. Please try again."
	if err := utils.Check(r, registrationMessages); err != nil {
		return nil, fail(err, fallback)
	}
	if r.Role == "" {
		r.Role = models.RoleCustomer
	}
	if _, err := models.ParseRole(string(r.Role)); err != nil {
		return nil, invalid("Please choose a valid role.")
	}

	resp, err := a.api.Register(ctx, r)
	if err != nil {
		if strings.Contains(api.MessageOr(err, ""), "already exists") {
			return nil, &Failure{Message: "User with this email already exists.", Err: err}
		}
		return nil, fail(err, fallback)
	}
	return a.signIn(resp, "Welcome, %s! Registration successful.", fallback)
}

// Google exchanges a Google ID credential.
func (a *Auth) Google(ctx context.Context, credential string) (*SignedIn, error) {
	const fallback = "Google authorization failed. Please try again."
	if utils.Blank(credential) {
		return nil, invalid("Google Login Failed")
	}
	resp, err := a.api.GoogleLogin(ctx, credential)
	if err != nil {
		return nil, &Failure{Message: fallback, Err: err}
	}
	return a.signIn(resp, "Welcome, %s! Google login successful.", fallback)
}

// SendOTP requests a one-time code for phone.
func (a *Auth) SendOTP(ctx context.Context, phone string) (string, error) {
	if utils.Blank(phone) {
		return "", invalid("Please enter your phone number.")
	}
	if err := a.api.SendOTP(ctx, strings.TrimSpace(phone)); err != nil {
		return "", fail(err, "Failed to send OTP.")
	}
	return "OTP sent successfully! Valid for 3 minutes.", nil
}

// LoginOTP signs in with a one-time code.
func (a *Auth) LoginOTP(ctx context.Context, phone, otp string) (*SignedIn, error) {
	const fallback = "Login failed. Invalid or expired OTP."
	if utils.Blank(phone) {
		return nil, invalid("Please enter your phone number.")
	}
	if utils.Blank(otp) {
		return nil, invalid("Please enter the OTP.")
	}
	resp, err := a.api.LoginOTP(ctx, strings.TrimSpace(phone), strings.TrimSpace(otp))
	if err != nil {
		return nil, fail(err, fallback)
	}
	return a.signIn(resp, "Welcome back, %s! Login successful.", fallback)
}

// ForgotPassword asks the backend to mail a reset link.
func (a *Auth) ForgotPassword(ctx context.Context, email string) (string, error) {
	if utils.Blank(email) {
		return "", invalid("Please enter your email address.")
	}
	if err := a.api.ForgotPassword(ctx, strings.TrimSpace(email)); err != nil {
		return "", fail(err, "Failed to send email")
	}
	return "Email sent! Please check your inbox.", nil
}

// ResetPassword sets a new password from a reset token.
func (a *Auth) ResetPassword(ctx context.Context, resetToken, password, confirm string) (string, error) {
	switch {
	case utils.Blank(resetToken):
		return "", invalid("Reset link is invalid.")
	case len(password) < 6:
		return "", invalid("Password must be at least 6 characters long.")
	case password != confirm:
		return "", invalid("Passwords do not match.")
	}
	if err := a.api.ResetPassword(ctx, resetToken, password); err != nil {
		return "", fail(err, "Failed to reset password")
	}
	return "Password reset successful! Please log in.", nil
}

// Logout ends the session.
func (a *Auth) Logout() {
	a.sessions.SignOut()
}
