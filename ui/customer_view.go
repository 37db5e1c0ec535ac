package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-oms/controllers"
	"go-oms/models"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxLineQuantity caps the quantity picker on a cart line.
const MaxLineQuantity = 20

type customerTab int

const (
	tabProducts customerTab = iota
	tabCart
	tabOrders
)

var customerTabs = []string{"Products", "Cart", "My Orders"}

type storefrontMsg struct {
	front controllers.Storefront
	err   error
}

type orderPlacedMsg struct {
	placed *controllers.OrderPlaced
	err    error
}

// customerScreen is the shopping dashboard. The cart lives here and is only
// touched from Update; order placement works on a clone.
type customerScreen struct {
	ctrl     *controllers.Customer
	auth     *controllers.Auth
	assetURL string
	styles   Styles

	tab      customerTab
	cursor   [3]int
	products []models.Product
	orders   []models.Order
	cart     *models.Cart
	loading  bool
	busy     bool
}

func newCustomerScreen(ctrl *controllers.Customer, auth *controllers.Auth, assetURL string, styles Styles) *customerScreen {
	return &customerScreen{
		ctrl:     ctrl,
		auth:     auth,
		assetURL: assetURL,
		styles:   styles,
		cart:     models.NewCart(),
		loading:  true,
	}
}

func (s *customerScreen) Init() tea.Cmd {
	ctrl := s.ctrl
	return func() tea.Msg {
		front, err := ctrl.Load(context.Background())
		return storefrontMsg{front: front, err: err}
	}
}

func (s *customerScreen) rows() int {
	switch s.tab {
	case tabCart:
		return s.cart.Len()
	case tabOrders:
		return len(s.orders)
	default:
		return len(s.products)
	}
}

func (s *customerScreen) clampCursor() {
	n := s.rows()
	c := &s.cursor[s.tab]
	if *c >= n {
		*c = n - 1
	}
	if *c < 0 {
		*c = 0
	}
}

func (s *customerScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case storefrontMsg:
		s.loading = false
		if msg.err != nil {
			return failure(controllers.Message(msg.err))
		}
		s.products, s.orders = msg.front.Products, msg.front.Orders
		s.clampCursor()
		return nil
	case orderPlacedMsg:
		s.busy = false
		if msg.err != nil {
			return failure(controllers.Message(msg.err))
		}
		s.cart.Clear()
		if msg.placed.Orders != nil {
			s.orders = msg.placed.Orders
		}
		s.tab = tabOrders
		s.clampCursor()
		return success(msg.placed.Message)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return nil
}

func (s *customerScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "right":
		s.tab = (s.tab + 1) % 3
		s.clampCursor()
		return nil
	case "shift+tab", "left":
		s.tab = (s.tab + 2) % 3
		s.clampCursor()
		return nil
	case "1", "2", "3":
		s.tab = customerTab(msg.String()[0] - '1')
		s.clampCursor()
		return nil
	case "up", "k":
		s.cursor[s.tab]--
		s.clampCursor()
		return nil
	case "down", "j":
		s.cursor[s.tab]++
		s.clampCursor()
		return nil
	case "L":
		s.auth.Logout()
		return success("Logged out successfully")
	case "r":
		if s.busy {
			return nil
		}
		s.loading = true
		return s.Init()
	}

	switch s.tab {
	case tabProducts:
		if msg.String() == "enter" || msg.String() == "a" {
			return s.addSelected()
		}
	case tabCart:
		return s.cartKey(msg.String())
	}
	return nil
}

func (s *customerScreen) addSelected() tea.Cmd {
	if len(s.products) == 0 {
		return nil
	}
	text, err := s.ctrl.AddToCart(s.cart, s.products[s.cursor[tabProducts]])
	if err != nil {
		return failure(controllers.Message(err))
	}
	return success(text)
}

func (s *customerScreen) cartKey(key string) tea.Cmd {
	if key == "p" {
		return s.placeOrder()
	}
	items := s.cart.Items()
	if len(items) == 0 {
		return nil
	}
	line := items[s.cursor[tabCart]]
	switch key {
	case "+", "=":
		if line.Quantity < MaxLineQuantity {
			s.cart.SetQuantity(line.Product.ID, line.Quantity+1)
		}
	case "-":
		if line.Quantity > 1 {
			s.cart.SetQuantity(line.Product.ID, line.Quantity-1)
		}
	case "d", "x", "delete":
		s.cart.Remove(line.Product.ID)
		s.clampCursor()
	}
	return nil
}

func (s *customerScreen) placeOrder() tea.Cmd {
	if s.busy {
		return nil
	}
	if s.cart.Empty() {
		return failure("Your cart is empty")
	}
	s.busy = true
	ctrl, cart := s.ctrl, s.cart.Clone()
	return func() tea.Msg {
		placed, err := ctrl.PlaceOrder(context.Background(), cart)
		if errors.Is(err, controllers.ErrEmptyCart) {
			err = &controllers.Failure{Message: "Your cart is empty", Err: err}
		}
		return orderPlacedMsg{placed: placed, err: err}
	}
}

func (s *customerScreen) line(i int, text string) string {
	if i == s.cursor[s.tab] {
		return s.styles.Selected.Render("> "+text) + "\n"
	}
	return "  " + text + "\n"
}

func (s *customerScreen) View() string {
	var b strings.Builder
	for i, name := range customerTabs {
		if name == "Cart" && !s.cart.Empty() {
			name = fmt.Sprintf("Cart (%d)", s.cart.Count())
		}
		if customerTab(i) == s.tab {
			b.WriteString(s.styles.TabOn.Render(name))
		} else {
			b.WriteString(s.styles.Tab.Render(name))
		}
	}
	b.WriteString("\n\n")
	if s.loading {
		b.WriteString(s.styles.Muted.Render("Loading..."))
		return b.String()
	}

	switch s.tab {
	case tabProducts:
		if len(s.products) == 0 {
			b.WriteString(s.styles.Muted.Render("No products available."))
		}
		for i, p := range s.products {
			stock := fmt.Sprintf("%d in stock", p.CountInStock)
			if !p.InStock() {
				stock = "Out of Stock"
			}
			b.WriteString(s.line(i, fmt.Sprintf("%-24s $%8.2f  %s", p.Name, p.Price, stock)))
		}
		if len(s.products) > 0 {
			p := s.products[s.cursor[tabProducts]]
			b.WriteString("\n" + s.styles.Muted.Render(p.Description))
			if p.ImageURL != "" {
				b.WriteString("\n" + s.styles.Muted.Render(models.ResolveAsset(s.assetURL, p.ImageURL)))
			}
		}
	case tabCart:
		if s.cart.Empty() {
			b.WriteString(s.styles.Muted.Render("Your cart is empty."))
			break
		}
		for i, it := range s.cart.Items() {
			b.WriteString(s.line(i, fmt.Sprintf("%-24s x%-3d $%8.2f", it.Product.Name, it.Quantity, it.Subtotal())))
		}
		b.WriteString("\n" + s.styles.Bold.Render(fmt.Sprintf("Total: $%.2f", s.cart.Total())))
		if s.busy {
			b.WriteString("\n" + s.styles.Muted.Render("Placing order..."))
		}
	case tabOrders:
		if len(s.orders) == 0 {
			b.WriteString(s.styles.Muted.Render("You have no orders yet."))
		}
		for i, o := range s.orders {
			b.WriteString(s.line(i, fmt.Sprintf("#%s  %-18s $%8.2f  %s", o.ShortID(), o.Status.Label(), o.TotalPrice, o.CreatedAt.Format("2006-01-02"))))
		}
	}
	return b.String()
}

func (s *customerScreen) Help() string {
	switch s.tab {
	case tabCart:
		return "+/- quantity · d remove · p place order · tab switch · L logout"
	case tabProducts:
		return "enter add to cart · ↑/↓ select · tab switch · r refresh · L logout"
	default:
		return "↑/↓ select · tab switch · r refresh · L logout"
	}
}
