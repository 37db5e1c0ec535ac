package apitest

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"go-oms/api"
	"go-oms/models"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const otpTTL = 3 * time.Minute

func (s *Server) authResponse(w http.ResponseWriter, status int, u models.User) {
	token, err := s.issueToken(u)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error generating token")
		return
	}
	writeJSON(w, status, api.AuthResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Token: token})
}

// register handles multipart user registration
func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}
	name := r.FormValue("name")
	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")
	if name == "" || email == "" || len(password) < 6 {
		writeMessage(w, http.StatusBadRequest, "Please fill in all required fields")
		return
	}
	role := models.RoleCustomer
	if v := r.FormValue("role"); v != "" {
		parsed, err := models.ParseRole(v)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid role")
			return
		}
		role = parsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error hashing password")
		return
	}

	s.mu.Lock()
	if s.findUserBy(func(a *account) bool { return a.Email == email }) != nil {
		s.mu.Unlock()
		writeMessage(w, http.StatusBadRequest, "User already exists")
		return
	}
	acct := &account{
		User: models.User{
			ID:          primitive.NewObjectID(),
			Name:        name,
			Email:       email,
			Role:        role,
			PhoneNumber: r.FormValue("phoneNumber"),
			Location:    r.FormValue("location"),
		},
		PasswordHash: hash,
	}
	if file, header, err := r.FormFile("profileImage"); err == nil {
		file.Close()
		acct.ProfileImage = "/uploads/" + acct.ID.Hex() + "_" + header.Filename
	}
	s.users = append(s.users, acct)
	user := acct.User
	s.mu.Unlock()

	s.authResponse(w, http.StatusCreated, user)
}

// login handles email/password authentication
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}
	email := strings.ToLower(strings.TrimSpace(creds.Email))

	s.mu.Lock()
	acct := s.findUserBy(func(a *account) bool { return a.Email == email })
	var user models.User
	var hash []byte
	if acct != nil {
		user, hash = acct.User, acct.PasswordHash
	}
	s.mu.Unlock()

	if acct == nil {
		writeMessage(w, http.StatusUnauthorized, "User not found")
		return
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(creds.Password)) != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	s.authResponse(w, http.StatusOK, user)
}

// googleLogin exchanges a Google ID token for a backend session, creating a
// customer account on first use. The dev backend does not check Google's signature.
func (s *Server) googleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Token == "" {
		writeMessage(w, http.StatusBadRequest, "Google token missing")
		return
	}
	claims := jwt.MapClaims{}
	var parser jwt.Parser
	if _, _, err := parser.ParseUnverified(body.Token, claims); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid Google token")
		return
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	if email == "" {
		writeMessage(w, http.StatusBadRequest, "Invalid Google token")
		return
	}
	email = strings.ToLower(email)

	s.mu.Lock()
	acct := s.findUserBy(func(a *account) bool { return a.Email == email })
	if acct == nil {
		acct = &account{User: models.User{ID: primitive.NewObjectID(), Name: name, Email: email, Role: models.RoleCustomer}}
		s.users = append(s.users, acct)
	}
	user := acct.User
	s.mu.Unlock()

	s.authResponse(w, http.StatusOK, user)
}

func (s *Server) sendOTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PhoneNumber string `json:"phoneNumber"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.PhoneNumber == "" {
		writeMessage(w, http.StatusBadRequest, "Phone number is required")
		return
	}
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to generate OTP")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findUserBy(func(a *account) bool { return a.PhoneNumber == body.PhoneNumber }) == nil {
		writeMessage(w, http.StatusNotFound, "No account registered with this phone number")
		return
	}
	s.otps[body.PhoneNumber] = otpCode{code: fmt.Sprintf("%06d", n.Int64()), expires: s.now().Add(otpTTL)}
	writeMessage(w, http.StatusOK, "OTP sent")
}

func (s *Server) loginOTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PhoneNumber string `json:"phoneNumber"`
		OTP         string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}

	s.mu.Lock()
	code, ok := s.otps[body.PhoneNumber]
	if !ok || code.code != body.OTP || s.now().After(code.expires) {
		s.mu.Unlock()
		writeMessage(w, http.StatusUnauthorized, "Invalid or expired OTP")
		return
	}
	delete(s.otps, body.PhoneNumber)
	acct := s.findUserBy(func(a *account) bool { return a.PhoneNumber == body.PhoneNumber })
	var user models.User
	if acct != nil {
		user = acct.User
	}
	s.mu.Unlock()

	if acct == nil {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	s.authResponse(w, http.StatusOK, user)
}

func (s *Server) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}
	email := strings.ToLower(strings.TrimSpace(body.Email))

	s.mu.Lock()
	acct := s.findUserBy(func(a *account) bool { return a.Email == email })
	if acct == nil {
		s.mu.Unlock()
		writeMessage(w, http.StatusNotFound, "There is no user with that email")
		return
	}
	acct.ResetToken = uuid.NewString()
	token := acct.ResetToken
	s.mu.Unlock()

	s.Mailer.SendPasswordReset(email, token)
	writeMessage(w, http.StatusOK, "Email sent")
}

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if len(body.Password) < 6 {
		writeMessage(w, http.StatusBadRequest, "Password must be at least 6 characters long")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.MinCost)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Error hashing password")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct := s.findUserBy(func(a *account) bool { return token != "" && a.ResetToken == token })
	if acct == nil {
		writeMessage(w, http.StatusBadRequest, "Invalid or expired reset token")
		return
	}
	acct.PasswordHash = hash
	acct.ResetToken = ""
	writeMessage(w, http.StatusOK, "Password reset successful")
}
