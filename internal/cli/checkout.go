package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tiendago/storefront/internal/models"
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Turn the cart into an order and open a hosted checkout session",
	RunE:  runCheckout,
}

var devolutionCmd = &cobra.Command{
	Use:   "devolution <order-id> <email> <reason...>",
	Short: "Request a return for an order",
	Args:  cobra.MinimumNArgs(3),
	RunE:  runDevolution,
}

func init() {
	rootCmd.AddCommand(checkoutCmd, devolutionCmd)
}

func runCheckout(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.sess.LoggedIn() {
		a.printer.Error("Debes iniciar sesión para finalizar la compra")
		return errors.New("not logged in")
	}

	a.cart.Fetch(cmd.Context())
	lines := a.cart.Lines()
	if len(lines) == 0 {
		a.printer.Print("El carrito está vacío")
		return nil
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, models.OrderItem{
			ProductID: l.ProductID,
			Nombre:    l.Nombre,
			Precio:    l.Precio,
			Cantidad:  l.Cantidad,
		})
	}

	order, err := a.client.CreateOrder(cmd.Context(), models.Order{Items: items, Total: a.cart.Total()})
	if err != nil {
		a.printer.Error("No se pudo crear el pedido")
		return err
	}
	a.printer.Success("Pedido %d creado (total %.2f)", order.ID, order.Total)

	user, _ := a.sess.User()
	sessionID, err := a.client.CreateCheckoutSession(cmd.Context(), items, user.Email)
	if err != nil {
		a.printer.Error("No se pudo iniciar el pago")
		return err
	}

	key, err := a.client.PaymentsConfig(cmd.Context())
	if err != nil {
		a.log.Warn("payments config fetch failed", "error", err)
	}

	a.printer.Print("Sesión de pago: %s", sessionID)
	if key != "" {
		a.printer.Print("Clave publicable: %s", key)
	}

	a.cart.Clear(cmd.Context())
	return nil
}

func runDevolution(cmd *cobra.Command, args []string) error {
	orderID, err := parseID(args[0])
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	resp, err := a.client.CreateDevolution(cmd.Context(), models.Devolution{
		OrderID: orderID,
		Email:   args[1],
		Reason:  strings.Join(args[2:], " "),
	})
	if err != nil {
		a.printer.Error("No se pudo registrar la devolución")
		return err
	}

	a.printer.Success("%s (devolución %d)", resp.Message, resp.DevolutionID)
	return nil
}
