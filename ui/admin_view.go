package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go-oms/api"
	"go-oms/controllers"
	"go-oms/models"
	"go-oms/session"

	tea "github.com/charmbracelet/bubbletea"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type adminTab int

const (
	tabOverview adminTab = iota
	tabAdminOrders
	tabAdminProducts
	tabUsers
)

var adminTabs = []string{"Dashboard", "Orders", "Products", "Users"}

type adminMode int

const (
	modeBrowse adminMode = iota
	modeProductForm
	modeLogistics
	modeStatus
	modeConfirm
)

const (
	pfName = iota
	pfDescription
	pfPrice
	pfStock
	pfImage
)

type listsMsg struct {
	lists controllers.Lists
	err   error
}

type adminResultMsg struct {
	out *controllers.Outcome
	err error
}

// adminScreen is the management dashboard. Every action goes through
// controllers.Admin.Apply and replaces the lists with the reload it returns.
type adminScreen struct {
	ctrl   *controllers.Admin
	auth   *controllers.Auth
	sess   session.Session
	styles Styles

	tab     adminTab
	cursor  [4]int
	lists   controllers.Lists
	loading bool
	busy    bool

	mode      adminMode
	product   *form
	editing   primitive.ObjectID
	logistics *form
	boy       int
	status    int
	confirm   string
	pending   controllers.Mutation
}

func newAdminScreen(ctrl *controllers.Admin, auth *controllers.Auth, sess session.Session, styles Styles) *adminScreen {
	return &adminScreen{
		ctrl:    ctrl,
		auth:    auth,
		sess:    sess,
		styles:  styles,
		loading: true,
		product: newForm(
			field{label: "Name"},
			field{label: "Description"},
			field{label: "Price", placeholder: "0.00"},
			field{label: "Count in stock", placeholder: "0"},
			field{label: "Image (optional path)"},
		),
		logistics: newForm(field{label: "Warehouse"}),
	}
}

func (s *adminScreen) Init() tea.Cmd {
	ctrl := s.ctrl
	return func() tea.Msg {
		lists, err := ctrl.Load(context.Background())
		return listsMsg{lists: lists, err: err}
	}
}

func (s *adminScreen) rows() int {
	switch s.tab {
	case tabAdminOrders:
		return len(s.lists.Orders)
	case tabAdminProducts:
		return len(s.lists.Products)
	case tabUsers:
		return len(s.lists.Users)
	default:
		return 0
	}
}

func (s *adminScreen) clampCursor() {
	for t := range s.cursor {
		saved := s.tab
		s.tab = adminTab(t)
		n := s.rows()
		s.tab = saved
		if s.cursor[t] >= n {
			s.cursor[t] = n - 1
		}
		if s.cursor[t] < 0 {
			s.cursor[t] = 0
		}
	}
}

func (s *adminScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case listsMsg:
		s.loading = false
		if msg.err != nil {
			return failure(controllers.Message(msg.err))
		}
		s.lists = msg.lists
		s.clampCursor()
		return nil
	case adminResultMsg:
		s.busy = false
		if msg.err != nil {
			return failure(controllers.Message(msg.err))
		}
		s.mode = modeBrowse
		if msg.out.ReloadErr != nil {
			return failure(msg.out.Message + " " + controllers.Message(msg.out.ReloadErr))
		}
		s.lists = *msg.out.Lists
		s.clampCursor()
		return success(msg.out.Message)
	case tea.KeyMsg:
		switch s.mode {
		case modeProductForm:
			return s.productKey(msg)
		case modeLogistics:
			return s.logisticsKey(msg)
		case modeStatus:
			return s.statusKey(msg)
		case modeConfirm:
			return s.confirmKey(msg)
		default:
			return s.browseKey(msg)
		}
	}
	return nil
}

func (s *adminScreen) apply(m controllers.Mutation) tea.Cmd {
	if s.busy {
		return nil
	}
	s.busy = true
	ctrl := s.ctrl
	return func() tea.Msg {
		out, err := ctrl.Apply(context.Background(), m)
		return adminResultMsg{out: out, err: err}
	}
}

func (s *adminScreen) ask(prompt string, m controllers.Mutation) tea.Cmd {
	s.mode = modeConfirm
	s.confirm = prompt
	s.pending = m
	return nil
}

func (s *adminScreen) browseKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "right":
		s.tab = (s.tab + 1) % 4
		return nil
	case "shift+tab", "left":
		s.tab = (s.tab + 3) % 4
		return nil
	case "1", "2", "3", "4":
		s.tab = adminTab(msg.String()[0] - '1')
		return nil
	case "up", "k":
		s.cursor[s.tab]--
		s.clampCursor()
		return nil
	case "down", "j":
		s.cursor[s.tab]++
		s.clampCursor()
		return nil
	case "r":
		if s.busy {
			return nil
		}
		s.loading = true
		return s.Init()
	case "L":
		s.auth.Logout()
		return success("Logged out successfully")
	}
	if s.busy {
		return nil
	}

	switch s.tab {
	case tabAdminOrders:
		return s.orderKey(msg.String())
	case tabAdminProducts:
		return s.productListKey(msg.String())
	case tabUsers:
		return s.userKey(msg.String())
	}
	return nil
}

func (s *adminScreen) orderKey(key string) tea.Cmd {
	if len(s.lists.Orders) == 0 {
		return nil
	}
	o := s.lists.Orders[s.cursor[tabAdminOrders]]
	switch key {
	case "b":
		if !o.AwaitingPickup() {
			return failure("Pickup already booked for this order.")
		}
		if len(models.DeliveryBoys(s.lists.Users)) == 0 {
			return failure("No delivery boys available.")
		}
		s.logistics.reset()
		s.boy = 0
		s.mode = modeLogistics
	case "s":
		if o.AwaitingPickup() {
			return failure("Book pickup first.")
		}
		s.status = 0
		for i, st := range models.StatusOptions {
			if st == o.Status {
				s.status = i
			}
		}
		s.mode = modeStatus
	}
	return nil
}

func (s *adminScreen) productListKey(key string) tea.Cmd {
	switch key {
	case "n":
		s.product.reset()
		s.editing = primitive.NilObjectID
		s.mode = modeProductForm
		return nil
	}
	if len(s.lists.Products) == 0 {
		return nil
	}
	p := s.lists.Products[s.cursor[tabAdminProducts]]
	switch key {
	case "e", "enter":
		s.product.reset()
		s.product.set(pfName, p.Name)
		s.product.set(pfDescription, p.Description)
		s.product.set(pfPrice, strconv.FormatFloat(p.Price, 'f', 2, 64))
		s.product.set(pfStock, strconv.Itoa(p.CountInStock))
		s.editing = p.ID
		s.mode = modeProductForm
	case "d":
		return s.ask(fmt.Sprintf("Delete product %q?", p.Name), controllers.DeleteProduct{ID: p.ID})
	}
	return nil
}

func (s *adminScreen) userKey(key string) tea.Cmd {
	if len(s.lists.Users) == 0 {
		return nil
	}
	u := s.lists.Users[s.cursor[tabUsers]]
	switch key {
	case "a":
		return s.apply(controllers.SetUserRole{User: u, Role: models.RoleAdmin})
	case "c":
		return s.apply(controllers.SetUserRole{User: u, Role: models.RoleDeliveryBoy})
	case "d":
		if u.ID == s.sess.ID {
			return failure("You cannot delete your own account")
		}
		return s.ask(fmt.Sprintf("Delete user %q?", u.Name), controllers.DeleteUser{User: u})
	}
	return nil
}

func (s *adminScreen) productKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyEsc {
		s.mode = modeBrowse
		return nil
	}
	if s.busy {
		return nil
	}
	cmd, submit := s.product.update(msg)
	if !submit {
		return cmd
	}
	f := &controllers.ProductForm{
		ID:          s.editing,
		Name:        strings.TrimSpace(s.product.value(pfName)),
		Description: strings.TrimSpace(s.product.value(pfDescription)),
		Price:       s.product.value(pfPrice),
		Stock:       s.product.value(pfStock),
	}
	image := strings.TrimSpace(s.product.value(pfImage))
	if image == "" {
		return s.apply(f)
	}
	s.busy = true
	ctrl := s.ctrl
	return func() tea.Msg {
		up, err := api.ReadUpload(image)
		if err != nil {
			return adminResultMsg{err: &controllers.Failure{Message: "Could not read image file.", Err: err}}
		}
		f.Image = up
		out, err := ctrl.Apply(context.Background(), f)
		return adminResultMsg{out: out, err: err}
	}
}

func (s *adminScreen) logisticsKey(msg tea.KeyMsg) tea.Cmd {
	boys := models.DeliveryBoys(s.lists.Users)
	switch msg.String() {
	case "esc":
		s.mode = modeBrowse
		return nil
	case "up", "down":
		if len(boys) > 0 {
			delta := 1
			if msg.String() == "up" {
				delta = len(boys) - 1
			}
			s.boy = (s.boy + delta) % len(boys)
		}
		return nil
	}
	if s.busy {
		return nil
	}
	cmd, submit := s.logistics.update(msg)
	if !submit {
		return cmd
	}
	o, ok := s.selectedOrder()
	if !ok {
		s.mode = modeBrowse
		return nil
	}
	m := controllers.AssignLogistics{
		OrderID:   o.ID,
		Warehouse: strings.TrimSpace(s.logistics.value(0)),
	}
	if s.boy < len(boys) {
		m.DeliveryBoy = boys[s.boy].ID
	}
	return s.apply(m)
}

func (s *adminScreen) statusKey(msg tea.KeyMsg) tea.Cmd {
	n := len(models.StatusOptions)
	switch msg.String() {
	case "esc":
		s.mode = modeBrowse
	case "up", "k":
		s.status = (s.status + n - 1) % n
	case "down", "j":
		s.status = (s.status + 1) % n
	case "enter":
		o, ok := s.selectedOrder()
		if !ok {
			s.mode = modeBrowse
			return nil
		}
		return s.apply(controllers.SetOrderStatus{ID: o.ID, From: o.Status, Status: models.StatusOptions[s.status]})
	}
	return nil
}

// selectedOrder is the order under the cursor. A reload can empty the list
// while a logistics or status prompt is open.
func (s *adminScreen) selectedOrder() (models.Order, bool) {
	i := s.cursor[tabAdminOrders]
	if i < 0 || i >= len(s.lists.Orders) {
		return models.Order{}, false
	}
	return s.lists.Orders[i], true
}

func (s *adminScreen) confirmKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		m := s.pending
		s.pending = nil
		s.mode = modeBrowse
		return s.apply(m)
	case "n", "N", "esc":
		s.pending = nil
		s.mode = modeBrowse
	}
	return nil
}

func (s *adminScreen) line(tab adminTab, i int, text string) string {
	if i == s.cursor[tab] {
		return s.styles.Selected.Render("> "+text) + "\n"
	}
	return "  " + text + "\n"
}

func (s *adminScreen) View() string {
	var b strings.Builder
	for i, name := range adminTabs {
		if adminTab(i) == s.tab {
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

	switch s.mode {
	case modeProductForm:
		title := "New product"
		if !s.editing.IsZero() {
			title = "Edit product"
		}
		b.WriteString(s.styles.Title.Render(title) + "\n" + s.product.view(s.styles))
		return b.String()
	case modeLogistics:
		b.WriteString(s.styles.Title.Render("Book pickup") + "\n" + s.logistics.view(s.styles))
		b.WriteString(s.styles.Muted.Render("Delivery boy") + "\n")
		for i, u := range models.DeliveryBoys(s.lists.Users) {
			if i == s.boy {
				b.WriteString(s.styles.Selected.Render("> "+u.Name) + "\n")
			} else {
				b.WriteString("  " + u.Name + "\n")
			}
		}
		return b.String()
	case modeStatus:
		b.WriteString(s.styles.Title.Render("Update status") + "\n")
		for i, st := range models.StatusOptions {
			if i == s.status {
				b.WriteString(s.styles.Selected.Render("> "+st.Label()) + "\n")
			} else {
				b.WriteString("  " + st.Label() + "\n")
			}
		}
		return b.String()
	case modeConfirm:
		b.WriteString(s.styles.Box.Render(s.confirm + " (y/n)"))
		return b.String()
	}

	switch s.tab {
	case tabOverview:
		st := s.lists.Stats()
		fmt.Fprintf(&b, "Products        %d\n", st.Products)
		fmt.Fprintf(&b, "Orders          %d\n", st.Orders)
		fmt.Fprintf(&b, "Users           %d\n", st.Users)
		fmt.Fprintf(&b, "Awaiting pickup %d\n", st.Pending)
		fmt.Fprintf(&b, "Delivered       %d\n", st.Delivered)
		fmt.Fprintf(&b, "Revenue         $%.2f\n\n", st.Revenue)
		b.WriteString(s.styles.Bold.Render("Delivery boys") + "\n")
		boys := models.DeliveryBoys(s.lists.Users)
		if len(boys) == 0 {
			b.WriteString(s.styles.Muted.Render("none"))
		}
		for _, u := range boys {
			fmt.Fprintf(&b, "  %s <%s> %s\n", u.Name, u.Email, u.PhoneNumber)
		}
	case tabAdminOrders:
		if len(s.lists.Orders) == 0 {
			b.WriteString(s.styles.Muted.Render("No orders yet."))
		}
		for i, o := range s.lists.Orders {
			who := o.User.Name
			if who == "" {
				who = o.User.ID.Hex()
			}
			extra := ""
			if o.DeliveryBoy != nil {
				extra = fmt.Sprintf("  %s via %s", o.Warehouse, o.DeliveryBoy.Name)
			}
			b.WriteString(s.line(tabAdminOrders, i, fmt.Sprintf("#%s  %-16s $%8.2f  %-18s%s", o.ShortID(), who, o.TotalPrice, o.Status.Label(), extra)))
		}
	case tabAdminProducts:
		if len(s.lists.Products) == 0 {
			b.WriteString(s.styles.Muted.Render("No products yet."))
		}
		for i, p := range s.lists.Products {
			b.WriteString(s.line(tabAdminProducts, i, fmt.Sprintf("%-24s $%8.2f  %4d in stock", p.Name, p.Price, p.CountInStock)))
		}
	case tabUsers:
		for i, u := range s.lists.Users {
			b.WriteString(s.line(tabUsers, i, fmt.Sprintf("%-20s %-28s %s", u.Name, u.Email, u.Role.Label())))
		}
	}
	if s.busy {
		b.WriteString("\n" + s.styles.Muted.Render("Working..."))
	}
	return b.String()
}

func (s *adminScreen) Help() string {
	switch s.mode {
	case modeProductForm:
		return "enter save · tab next · esc cancel"
	case modeLogistics:
		return "↑/↓ delivery boy · enter book · esc cancel"
	case modeStatus:
		return "↑/↓ choose · enter apply · esc cancel"
	case modeConfirm:
		return "y confirm · n cancel"
	}
	switch s.tab {
	case tabAdminOrders:
		return "b book pickup · s status · tab switch · r refresh · L logout"
	case tabAdminProducts:
		return "n new · e edit · d delete · tab switch · r refresh · L logout"
	case tabUsers:
		return "a make admin · c make delivery boy · d delete · tab switch · L logout"
	default:
		return "tab switch · r refresh · L logout"
	}
}
