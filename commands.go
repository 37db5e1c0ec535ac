package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"go-oms/apitest"
	"go-oms/controllers"
	"go-oms/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var errNotSignedIn = errors.New("not signed in; run `oms login` first")

var stdin = bufio.NewReader(os.Stdin)

func prompt(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptSecret reads without echo when stdin is a terminal.
func promptSecret(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return prompt(label)
	}
	fmt.Fprint(os.Stderr, label)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(b), nil
}

func report(err error) error {
	if err == nil {
		return nil
	}
	return errors.New(controllers.Message(err))
}

func printSignedIn(w io.Writer, res *controllers.SignedIn) {
	fmt.Fprintln(w, res.Message)
	fmt.Fprintf(w, "Signed in as %s (%s). Home: %s\n", res.Session.Name, res.Session.Role.Label(), res.Home)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		var err error
		if email == "" {
			if email, err = prompt("Email: "); err != nil {
				return err
			}
		}
		password, err := promptSecret("Password: ")
		if err != nil {
			return err
		}
		res, err := newAuth().Login(cmd.Context(), email, password)
		if err != nil {
			return report(err)
		}
		printSignedIn(cmd.OutOrStdout(), res)
		return nil
	},
}

var loginOTPCmd = &cobra.Command{
	Use:   "login-otp",
	Short: "Sign in with a one-time code sent to your phone",
	RunE: func(cmd *cobra.Command, args []string) error {
		phone, _ := cmd.Flags().GetString("phone")
		code, _ := cmd.Flags().GetString("code")
		auth := newAuth()
		if code == "" {
			msg, err := auth.SendOTP(cmd.Context(), phone)
			if err != nil {
				return report(err)
			}
			fmt.Fprintln(os.Stderr, msg)
			if code, err = prompt("OTP: "); err != nil {
				return err
			}
		}
		res, err := auth.LoginOTP(cmd.Context(), phone, code)
		if err != nil {
			return report(err)
		}
		printSignedIn(cmd.OutOrStdout(), res)
		return nil
	},
}

var loginGoogleCmd = &cobra.Command{
	Use:   "login-google",
	Short: "Sign in with a Google ID credential",
	RunE: func(cmd *cobra.Command, args []string) error {
		credential, _ := cmd.Flags().GetString("credential")
		res, err := newAuth().Google(cmd.Context(), credential)
		if err != nil {
			return report(err)
		}
		printSignedIn(cmd.OutOrStdout(), res)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored credential",
	Run: func(cmd *cobra.Command, args []string) {
		newAuth().Logout()
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out successfully")
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, ok := sessions.Current()
		if !ok {
			return errNotSignedIn
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n  id:   %s\n  role: %s\n", sess.Name, sess.ID.Hex(), sess.Role.Label())
		return nil
	},
}

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List the catalogue",
	RunE: func(cmd *cobra.Command, args []string) error {
		products, err := client.ListProducts(cmd.Context())
		if err != nil {
			return report(&controllers.Failure{Message: "Failed to load products.", Err: err})
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("ID", "NAME", "PRICE", "STOCK")
		for _, p := range products {
			stock := strconv.Itoa(p.CountInStock)
			if !p.InStock() {
				stock = "Out of Stock"
			}
			t.Row(p.ID.Hex(), p.Name, fmt.Sprintf("$%.2f", p.Price), stock)
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
		return nil
	},
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List your orders (all orders for admins)",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, ok := sessions.Current()
		if !ok {
			return errNotSignedIn
		}
		var orders []models.Order
		var err error
		if sess.Role == models.RoleAdmin {
			orders, err = client.ListOrders(cmd.Context())
		} else {
			orders, err = client.MyOrders(cmd.Context())
		}
		if err != nil {
			return report(&controllers.Failure{Message: "Failed to load orders.", Err: err})
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("ORDER", "CUSTOMER", "ITEMS", "TOTAL", "STATUS", "PLACED")
		for _, o := range orders {
			t.Row(o.ShortID(), o.User.Name, strconv.Itoa(len(o.Items)),
				fmt.Sprintf("$%.2f", o.TotalPrice), o.Status.Label(), o.CreatedAt.Format(time.DateOnly))
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
		return nil
	},
}

var forgotPasswordCmd = &cobra.Command{
	Use:   "forgot-password",
	Short: "Email a password reset link",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		msg, err := newAuth().ForgotPassword(cmd.Context(), email)
		if err != nil {
			return report(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password <token>",
	Short: "Set a new password from a reset token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := promptSecret("New password: ")
		if err != nil {
			return err
		}
		confirm, err := promptSecret("Confirm password: ")
		if err != nil {
			return err
		}
		msg, err := newAuth().ResetPassword(cmd.Context(), args[0], password, confirm)
		if err != nil {
			return report(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

var mockServerCmd = &cobra.Command{
	Use:   "mock-server",
	Short: "Run an in-memory development backend",
	Long: `Serves the REST API from memory under /api, seeded with an admin, a
delivery boy, a customer and a few products. Password reset mails are logged,
and also sent through SendGrid when SENDGRID_API_KEY is set.`,
	RunE: runMockServer,
}

func runMockServer(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret"
	}
	backend := apitest.NewServer(secret)
	backend.Mailer.Logger = logger.Named("mail")
	if sg := apitest.SendGridFromEnv(); sg != nil {
		backend.Mailer.SendGrid = sg
		logger.Info("delivering mail through SendGrid")
	}
	seed(backend)

	srv := &http.Server{Addr: addr, Handler: backend.Handler()}
	errs := make(chan error, 1)
	go func() { errs <- srv.ListenAndServe() }()
	logger.Info("mock server listening", zap.String("addr", addr))

	select {
	case err := <-errs:
		return err
	case <-cmd.Context().Done():
	}
	logger.Info("shutting down mock server")
	return srv.Close()
}

func seed(s *apitest.Server) {
	admin := s.AddUser("Admin", "admin@example.com", "admin123", models.RoleAdmin)
	boy := s.AddUser("Dave Driver", "driver@example.com", "driver123", models.RoleDeliveryBoy)
	cust := s.AddUser("Casey Customer", "customer@example.com", "customer123", models.RoleCustomer)
	s.SetPhone(boy.ID, "+15550100")
	s.SetPhone(cust.ID, "+15550101")
	s.AddProduct(models.Product{Name: "Espresso Beans", Description: "1kg dark roast", Price: 24.5, CountInStock: 40})
	s.AddProduct(models.Product{Name: "Pour-over Kettle", Description: "Gooseneck, 1L", Price: 39.99, CountInStock: 12})
	s.AddProduct(models.Product{Name: "Paper Filters", Description: "Pack of 100", Price: 4.25, CountInStock: 0})
	logger.Info("seeded accounts",
		zap.String("admin", admin.Email),
		zap.String("delivery_boy", boy.Email),
		zap.String("customer", cust.Email))
}

func registerCommands(root *cobra.Command) {
	loginCmd.Flags().String("email", "", "account email")
	loginOTPCmd.Flags().String("phone", "", "phone number")
	loginOTPCmd.Flags().String("code", "", "one-time code, prompted for when omitted")
	_ = loginOTPCmd.MarkFlagRequired("phone")
	loginGoogleCmd.Flags().String("credential", "", "Google ID token")
	_ = loginGoogleCmd.MarkFlagRequired("credential")
	forgotPasswordCmd.Flags().String("email", "", "account email")
	_ = forgotPasswordCmd.MarkFlagRequired("email")
	mockServerCmd.Flags().String("addr", ":5000", "listen address")

	root.AddCommand(
		loginCmd,
		loginOTPCmd,
		loginGoogleCmd,
		logoutCmd,
		whoamiCmd,
		productsCmd,
		ordersCmd,
		forgotPasswordCmd,
		resetPasswordCmd,
		mockServerCmd,
	)
}
