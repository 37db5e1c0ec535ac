package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go-oms/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newID() primitive.ObjectID {
	return primitive.NewObjectID()
}

// createOrder places an order for the signed-in user and deducts stock
func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	var req models.NewOrder
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Items) == 0 {
		writeMessage(w, http.StatusBadRequest, "No order items")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// check stock before touching anything
	stock := make(map[primitive.ObjectID]int)
	for _, p := range s.products {
		stock[p.ID] = p.CountInStock
	}
	for _, item := range req.Items {
		have, ok := stock[item.Product]
		if !ok {
			writeMessage(w, http.StatusNotFound, fmt.Sprintf("Product %s not found", item.Name))
			return
		}
		if item.Qty < 1 || have < item.Qty {
			writeMessage(w, http.StatusBadRequest, fmt.Sprintf("Insufficient stock for product: %s", item.Name))
			return
		}
		stock[item.Product] = have - item.Qty
	}
	for i := range s.products {
		s.products[i].CountInStock = stock[s.products[i].ID]
	}

	order := models.Order{
		ID:         newID(),
		User:       models.UserRef{ID: user.ID, Name: user.Name, Email: user.Email},
		Items:      req.Items,
		TotalPrice: req.TotalPrice,
		Status:     models.StatusPending,
		CreatedAt:  s.now().UTC(),
	}
	s.orders = append(s.orders, order)
	writeJSON(w, http.StatusCreated, order)
}

// myOrders lists the signed-in user's orders
func (s *Server) myOrders(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Order{}
	for _, o := range s.orders {
		if o.User.ID == user.ID {
			out = append(out, o)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// listOrders lists every order (Admin only)
func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	out := s.Orders()
	if out == nil {
		out = []models.Order{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) withOrder(w http.ResponseWriter, r *http.Request, fn func(o *models.Order) (int, string)) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid order ID")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			status, msg := fn(&s.orders[i])
			if status != http.StatusOK {
				writeMessage(w, status, msg)
				return
			}
			writeJSON(w, http.StatusOK, s.orders[i])
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "Order not found")
}

// updateOrderStatus lets an admin move an order along
func (s *Server) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || !body.Status.Valid() {
		writeMessage(w, http.StatusBadRequest, "Invalid status")
		return
	}
	s.withOrder(w, r, func(o *models.Order) (int, string) {
		if o.Status == models.StatusDelivered || o.Status == models.StatusCancelled {
			return http.StatusBadRequest, fmt.Sprintf("Order is already %s", o.Status)
		}
		o.Status = body.Status
		return http.StatusOK, ""
	})
}

// assignLogistics books pickup from a warehouse with a delivery boy
func (s *Server) assignLogistics(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Warehouse     string `json:"warehouse"`
		DeliveryBoyID string `json:"deliveryBoyId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Warehouse == "" {
		writeMessage(w, http.StatusBadRequest, "Warehouse and delivery boy are required")
		return
	}
	boyID, err := primitive.ObjectIDFromHex(body.DeliveryBoyID)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Warehouse and delivery boy are required")
		return
	}
	s.withOrder(w, r, func(o *models.Order) (int, string) {
		boy := s.findUser(boyID)
		if boy == nil || boy.Role != models.RoleDeliveryBoy {
			return http.StatusBadRequest, "Selected user is not a delivery boy"
		}
		if !o.AwaitingPickup() {
			return http.StatusBadRequest, "Pickup already booked"
		}
		o.Warehouse = body.Warehouse
		o.DeliveryBoy = &models.UserRef{ID: boy.ID, Name: boy.Name}
		o.Status = models.StatusReadyForPickup
		return http.StatusOK, ""
	})
}
