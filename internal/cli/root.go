// Package cli contains the storefront commands.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tiendago/storefront/internal/api"
	"github.com/tiendago/storefront/internal/cart"
	"github.com/tiendago/storefront/internal/config"
	"github.com/tiendago/storefront/internal/logging"
	"github.com/tiendago/storefront/internal/notify"
	"github.com/tiendago/storefront/internal/output"
	"github.com/tiendago/storefront/internal/session"
	"github.com/tiendago/storefront/internal/storage"
)

var (
	apiURL    string
	statePath string
	verbose   bool
	noColor   bool
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront client for the multi-vendor shop platform",
	Long: `storefront browses the catalog, manages the cart and checks out
against the platform API.

Example usage:
  storefront products list             # Browse the catalog
  storefront login user@shop.com -p pw # Start a session
  storefront cart add 7 --cantidad 2   # Put two units of product 7 in the cart
  storefront checkout                  # Turn the cart into an order`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "platform API base URL (default from API_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&statePath, "state", "", "state database path (default from STATE_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	_ = viper.BindPFlag("api_url", rootCmd.PersistentFlags().Lookup("api-url"))
	_ = viper.BindPFlag("state", rootCmd.PersistentFlags().Lookup("state"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// app wires the stores together for one command invocation. Stores are
// explicit objects passed by reference; nothing hangs off package state.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	printer *output.Printer
	kv      *storage.Store
	client  *api.Client
	toasts  *notify.Center
	sess    *session.Store
	cart    *cart.Store
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if v := viper.GetString("api_url"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := viper.GetString("state"); v != "" {
		cfg.StatePath = v
	}
	if verbose {
		cfg.LogLevel = "debug"
		cfg.LogHTTPDebug = true
	}

	log := logging.New(cfg.LogLevel)
	printer := output.NewPrinter(!noColor)

	kvOpts := []storage.Option{storage.WithLogger(log)}
	if !cfg.TrustPersistedSession {
		kvOpts = append(kvOpts, storage.WithUntrustedKeys(storage.KeyToken, storage.KeyUser))
	}
	kv, err := storage.Open(cfg.StatePath, kvOpts...)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, printer: printer, kv: kv}

	clientOpts := []api.Option{api.WithLogger(log)}
	if cfg.LogHTTPDebug {
		clientOpts = append(clientOpts, api.WithDebug())
	}
	a.client = api.New(cfg.APIBaseURL, func() string {
		if a.sess == nil {
			return ""
		}
		return a.sess.Token()
	}, clientOpts...)

	a.toasts = notify.NewCenter(
		notify.WithAuthCheck(func() bool { return a.sess != nil && a.sess.LoggedIn() }),
		notify.WithSink(printer.Toast),
	)
	a.sess = session.New(kv, a.client, &navigator{printer: printer},
		session.WithLogger(log),
		session.WithRegisterAutoLogin(cfg.RegisterAutoLogin),
	)
	a.cart = cart.New(a.client, a.sess, a.toasts, cart.WithLogger(log))

	return a, nil
}

func (a *app) Close() {
	if err := a.kv.Close(); err != nil {
		a.log.Error("state db close failed", "error", err)
	}
}

// navigator maps route transitions onto terminal hints.
type navigator struct {
	printer *output.Printer
}

func (n *navigator) Navigate(route string) {
	n.printer.Info("→ %s", route)
}
