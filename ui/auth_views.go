package ui

import (
	"context"
	"strings"

	"go-oms/api"
	"go-oms/controllers"
	"go-oms/models"
	"go-oms/routes"

	tea "github.com/charmbracelet/bubbletea"
)

// signedInMsg reports the end of any sign-in attempt.
type signedInMsg struct {
	res *controllers.SignedIn
	err error
}

// noticeMsg reports the end of a call that only produces a notice.
type noticeMsg struct {
	text string
	err  error
	next string
}

func afterSignIn(msg signedInMsg) tea.Cmd {
	if msg.err != nil {
		return failure(controllers.Message(msg.err))
	}
	return tea.Batch(success(msg.res.Message), navigate(msg.res.Home))
}

func afterNotice(msg noticeMsg) tea.Cmd {
	if msg.err != nil {
		return failure(controllers.Message(msg.err))
	}
	if msg.next != "" {
		return tea.Batch(success(msg.text), navigate(msg.next))
	}
	return success(msg.text)
}

type loginMode int

const (
	modeEmail loginMode = iota
	modeOTP
	modeGoogle
)

func (m loginMode) String() string {
	switch m {
	case modeOTP:
		return "Phone (OTP)"
	case modeGoogle:
		return "Google"
	default:
		return "Email"
	}
}

type loginScreen struct {
	auth   *controllers.Auth
	styles Styles
	mode   loginMode
	forms  [3]*form
	busy   bool
}

func newLoginScreen(auth *controllers.Auth, styles Styles) *loginScreen {
	return &loginScreen{
		auth:   auth,
		styles: styles,
		forms: [3]*form{
			newForm(field{label: "Email", placeholder: "you@example.com"}, field{label: "Password", secret: true}),
			newForm(field{label: "Phone number", placeholder: "+15550100"}, field{label: "OTP"}),
			newForm(field{label: "Google ID credential"}),
		},
	}
}

func (s *loginScreen) Init() tea.Cmd { return nil }

func (s *loginScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case signedInMsg:
		s.busy = false
		return afterSignIn(msg)
	case noticeMsg:
		s.busy = false
		if msg.err == nil {
			s.forms[modeOTP].move(1)
		}
		return afterNotice(msg)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+o":
			s.mode = (s.mode + 1) % 3
			return nil
		case "ctrl+r":
			return navigate(routes.RegisterPath)
		case "ctrl+f":
			return navigate(routes.ForgotPath)
		}
		if s.busy {
			return nil
		}
		f := s.forms[s.mode]
		if s.mode == modeOTP && msg.Type == tea.KeyEnter && f.focus == 0 {
			return s.sendOTP()
		}
		cmd, submit := f.update(msg)
		if submit {
			return s.submit()
		}
		return cmd
	}
	return nil
}

func (s *loginScreen) sendOTP() tea.Cmd {
	s.busy = true
	auth, phone := s.auth, s.forms[modeOTP].value(0)
	return func() tea.Msg {
		text, err := auth.SendOTP(context.Background(), phone)
		return noticeMsg{text: text, err: err}
	}
}

func (s *loginScreen) submit() tea.Cmd {
	s.busy = true
	auth, f := s.auth, s.forms[s.mode]
	switch s.mode {
	case modeOTP:
		phone, code := f.value(0), f.value(1)
		return func() tea.Msg {
			res, err := auth.LoginOTP(context.Background(), phone, code)
			return signedInMsg{res: res, err: err}
		}
	case modeGoogle:
		credential := f.value(0)
		return func() tea.Msg {
			res, err := auth.Google(context.Background(), credential)
			return signedInMsg{res: res, err: err}
		}
	default:
		email, password := f.value(0), f.value(1)
		return func() tea.Msg {
			res, err := auth.Login(context.Background(), email, password)
			return signedInMsg{res: res, err: err}
		}
	}
}

func (s *loginScreen) View() string {
	var b strings.Builder
	b.WriteString(s.styles.Title.Render("Sign in"))
	b.WriteString("\n")
	for m := modeEmail; m <= modeGoogle; m++ {
		if m == s.mode {
			b.WriteString(s.styles.TabOn.Render(m.String()))
		} else {
			b.WriteString(s.styles.Tab.Render(m.String()))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(s.forms[s.mode].view(s.styles))
	if s.busy {
		b.WriteString(s.styles.Muted.Render("Signing in..."))
	}
	return b.String()
}

func (s *loginScreen) Help() string {
	return "enter submit · tab next · ctrl+o method · ctrl+r register · ctrl+f forgot password"
}

const (
	regName = iota
	regEmail
	regPassword
	regPhone
	regLocation
	regRole
	regImage
)

type registerScreen struct {
	auth   *controllers.Auth
	styles Styles
	form   *form
	busy   bool
}

func newRegisterScreen(auth *controllers.Auth, styles Styles) *registerScreen {
	return &registerScreen{
		auth:   auth,
		styles: styles,
		form: newForm(
			field{label: "Name"},
			field{label: "Email", placeholder: "you@example.com"},
			field{label: "Password", placeholder: "at least 6 characters", secret: true},
			field{label: "Phone number"},
			field{label: "Location"},
			field{label: "Role", placeholder: "customer | admin | delivery_boy"},
			field{label: "Profile image (optional path)"},
		),
	}
}

func (s *registerScreen) Init() tea.Cmd { return nil }

func (s *registerScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case signedInMsg:
		s.busy = false
		return afterSignIn(msg)
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return navigate(routes.LoginPath)
		}
		if s.busy {
			return nil
		}
		cmd, submit := s.form.update(msg)
		if submit {
			return s.submit()
		}
		return cmd
	}
	return nil
}

func (s *registerScreen) submit() tea.Cmd {
	s.busy = true
	f := s.form
	reg := api.Registration{
		Name:        strings.TrimSpace(f.value(regName)),
		Email:       strings.TrimSpace(f.value(regEmail)),
		Password:    f.value(regPassword),
		PhoneNumber: strings.TrimSpace(f.value(regPhone)),
		Location:    strings.TrimSpace(f.value(regLocation)),
		Role:        models.Role(strings.TrimSpace(f.value(regRole))),
	}
	image := strings.TrimSpace(f.value(regImage))
	auth := s.auth
	return func() tea.Msg {
		if image != "" {
			up, err := api.ReadUpload(image)
			if err != nil {
				return signedInMsg{err: &controllers.Failure{Message: "Could not read profile image.", Err: err}}
			}
			reg.ProfileImage = up
		}
		res, err := auth.Register(context.Background(), reg)
		return signedInMsg{res: res, err: err}
	}
}

func (s *registerScreen) View() string {
	return s.styles.Title.Render("Create an account") + "\n" + s.form.view(s.styles)
}

func (s *registerScreen) Help() string { return "enter submit · tab next · esc back to login" }

type forgotScreen struct {
	auth   *controllers.Auth
	styles Styles
	form   *form
	busy   bool
}

func newForgotScreen(auth *controllers.Auth, styles Styles) *forgotScreen {
	return &forgotScreen{
		auth:   auth,
		styles: styles,
		form:   newForm(field{label: "Email", placeholder: "you@example.com"}),
	}
}

func (s *forgotScreen) Init() tea.Cmd { return nil }

func (s *forgotScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case noticeMsg:
		s.busy = false
		return afterNotice(msg)
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return navigate(routes.LoginPath)
		}
		if s.busy {
			return nil
		}
		cmd, submit := s.form.update(msg)
		if !submit {
			return cmd
		}
		s.busy = true
		auth, email := s.auth, s.form.value(0)
		return func() tea.Msg {
			text, err := auth.ForgotPassword(context.Background(), email)
			return noticeMsg{text: text, err: err}
		}
	}
	return nil
}

func (s *forgotScreen) View() string {
	return s.styles.Title.Render("Forgot password") + "\n" + s.form.view(s.styles)
}

func (s *forgotScreen) Help() string { return "enter send reset link · esc back to login" }

type resetScreen struct {
	auth   *controllers.Auth
	token  string
	styles Styles
	form   *form
	busy   bool
}

func newResetScreen(auth *controllers.Auth, token string, styles Styles) *resetScreen {
	return &resetScreen{
		auth:   auth,
		token:  token,
		styles: styles,
		form: newForm(
			field{label: "New password", secret: true},
			field{label: "Confirm password", secret: true},
		),
	}
}

func (s *resetScreen) Init() tea.Cmd { return nil }

func (s *resetScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case noticeMsg:
		s.busy = false
		return afterNotice(msg)
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return navigate(routes.LoginPath)
		}
		if s.busy {
			return nil
		}
		cmd, submit := s.form.update(msg)
		if !submit {
			return cmd
		}
		s.busy = true
		auth, token := s.auth, s.token
		password, confirm := s.form.value(0), s.form.value(1)
		return func() tea.Msg {
			text, err := auth.ResetPassword(context.Background(), token, password, confirm)
			return noticeMsg{text: text, err: err, next: routes.LoginPath}
		}
	}
	return nil
}

func (s *resetScreen) View() string {
	return s.styles.Title.Render("Reset password") + "\n" + s.form.view(s.styles)
}

func (s *resetScreen) Help() string { return "enter reset · tab next · esc back to login" }
