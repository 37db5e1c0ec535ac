package apitest

import (
	"net/http"
	"strconv"

	"go-oms/models"
)

// listProducts retrieves all products
func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	out := s.Products()
	if out == nil {
		out = []models.Product{}
	}
	writeJSON(w, http.StatusOK, out)
}

func parseProductForm(r *http.Request, p *models.Product, partial bool) string {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		return "Invalid input"
	}
	if v := r.FormValue("name"); v != "" {
		p.Name = v
	} else if !partial {
		return "Product name is required"
	}
	if v := r.FormValue("description"); v != "" || !partial {
		p.Description = v
	}
	if v := r.FormValue("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || price < 0 {
			return "Invalid price"
		}
		p.Price = price
	}
	if v := r.FormValue("countInStock"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return "Invalid stock count"
		}
		p.CountInStock = n
	}
	if file, header, err := r.FormFile("image"); err == nil {
		file.Close()
		p.ImageURL = "/uploads/" + p.ID.Hex() + "_" + header.Filename
	}
	return ""
}

// createProduct handles adding a new product (Admin only)
func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	p := models.Product{ID: newID()}
	if msg := parseProductForm(r, &p, false); msg != "" {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}
	s.mu.Lock()
	s.products = append(s.products, p)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, p)
}

// updateProduct handles updating a product (Admin only)
func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid product ID")
		return
	}
	s.mu.Lock()
	idx := -1
	for i, p := range s.products {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		writeMessage(w, http.StatusNotFound, "Product not found")
		return
	}
	p := s.products[idx]
	s.mu.Unlock()

	if msg := parseProductForm(r, &p, true); msg != "" {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}

	s.mu.Lock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i] = p
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, p)
}

// deleteProduct handles deleting a product (Admin only)
func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid product ID")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.products {
		if p.ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			writeMessage(w, http.StatusOK, "Product removed")
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "Product not found")
}
