package apitest

import (
	"encoding/json"
	"net/http"

	"go-oms/models"
)

// listUsers lists every account (Admin only)
func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Users())
}

// updateUserRole changes an account's role (Admin only)
func (s *Server) updateUserRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	var body struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}
	role, err := models.ParseRole(body.Role)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid role")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct := s.findUser(id)
	if acct == nil {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	acct.Role = role
	writeJSON(w, http.StatusOK, acct.User)
}

// deleteUser removes an account (Admin only)
func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	if currentUser(r).ID == id {
		writeMessage(w, http.StatusBadRequest, "You cannot delete your own account")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.users {
		if a.ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			writeMessage(w, http.StatusOK, "User removed")
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "User not found")
}
