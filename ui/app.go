package ui

import (
	"fmt"
	"strings"
	"time"

	"go-oms/controllers"
	"go-oms/routes"
	"go-oms/session"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Deps wires the app to its controllers.
type Deps struct {
	Auth     *controllers.Auth
	Customer *controllers.Customer
	Admin    *controllers.Admin
	Sessions *session.Store
	Router   *routes.Router
	AssetURL string
	Logger   *zap.Logger
}

// screen is one mounted view. Screens mutate themselves only from Update.
type screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	Help() string
}

// navigateMsg asks the app to mount path.
type navigateMsg string

func navigate(path string) tea.Cmd {
	return func() tea.Msg { return navigateMsg(path) }
}

// App is the root bubbletea model. It owns the current route and the toast,
// and doubles as the session store's navigator.
type App struct {
	deps   Deps
	styles Styles
	logger *zap.Logger

	path    string
	view    routes.View
	screen  screen
	pending string

	toast   *toast
	toastID int
	tick    func(time.Duration, func(time.Time) tea.Msg) tea.Cmd

	width, height int
}

// NewApp creates the app and installs it as the session navigator. start is
// the first path to open; empty means the login screen.
func NewApp(deps Deps, start string) *App {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Router == nil {
		deps.Router = routes.New()
	}
	if start == "" {
		start = routes.LoginPath
	}
	a := &App{
		deps:   deps,
		styles: DefaultStyles(),
		logger: deps.Logger.Named("ui"),
		tick:   tea.Tick,
	}
	deps.Sessions.SetNavigator(a)
	a.mount(start)
	return a
}

// Navigate records a route change; it is applied once the current message
// has been handled.
func (a *App) Navigate(path string) {
	a.pending = path
}

// Path is the route currently shown.
func (a *App) Path() string { return a.path }

// CurrentView is the view currently shown.
func (a *App) CurrentView() routes.View { return a.view }

func (a *App) Init() tea.Cmd {
	return a.screen.Init()
}

func (a *App) mount(path string) {
	sess, ok := a.deps.Sessions.Current()
	res := a.deps.Router.Resolve(path, sess, ok)
	if res.Path != path {
		a.logger.Debug("route redirected", zap.String("from", path), zap.String("to", res.Path))
	}
	a.path = res.Path
	a.view = res.View

	switch res.View {
	case routes.ViewRegister:
		a.screen = newRegisterScreen(a.deps.Auth, a.styles)
	case routes.ViewForgotPassword:
		a.screen = newForgotScreen(a.deps.Auth, a.styles)
	case routes.ViewResetPassword:
		a.screen = newResetScreen(a.deps.Auth, res.Vars["resetToken"], a.styles)
	case routes.ViewDashboard:
		a.screen = newCustomerScreen(a.deps.Customer, a.deps.Auth, a.deps.AssetURL, a.styles)
	case routes.ViewAdmin:
		a.screen = newAdminScreen(a.deps.Admin, a.deps.Auth, sess, a.styles)
	default:
		a.screen = newLoginScreen(a.deps.Auth, a.styles)
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
	case navigateMsg:
		a.mount(string(msg))
		return a, a.screen.Init()
	case toastMsg:
		a.toastID++
		a.toast = &toast{id: a.toastID, kind: msg.kind, text: msg.text}
		id := a.toastID
		return a, a.tick(ToastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} })
	case toastExpiredMsg:
		if a.toast != nil && a.toast.id == msg.id {
			a.toast = nil
		}
		return a, nil
	}

	cmd := a.screen.Update(msg)
	if a.pending != "" {
		path := a.pending
		a.pending = ""
		a.mount(path)
		return a, tea.Batch(cmd, a.screen.Init())
	}
	return a, cmd
}

func (a *App) View() string {
	var b strings.Builder
	header := "Order Management"
	if sess, ok := a.deps.Sessions.Current(); ok {
		header = fmt.Sprintf("%s · %s (%s)", header, sess.Name, sess.Role.Label())
	}
	b.WriteString(a.styles.Header.Render(header))
	b.WriteString("\n\n")
	b.WriteString(a.screen.View())
	if a.toast != nil {
		b.WriteString("\n")
		b.WriteString(a.toast.render(a.styles))
	}
	b.WriteString("\n")
	b.WriteString(a.styles.Footer.Render(a.screen.Help() + " · ctrl+c quit"))
	return b.String()
}
