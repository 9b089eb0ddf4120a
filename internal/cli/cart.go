package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tiendago/storefront/internal/output"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage the shopping cart",
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cart",
	RunE:  runCartShow,
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartAdd,
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <line-id>",
	Short: "Remove a cart line",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartRemove,
}

var cartSetCmd = &cobra.Command{
	Use:   "set <line-id> <cantidad>",
	Short: "Change the quantity of a cart line",
	Args:  cobra.ExactArgs(2),
	RunE:  runCartSet,
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	RunE:  runCartClear,
}

func init() {
	cartAddCmd.Flags().Int("cantidad", 1, "units to add")

	cartCmd.AddCommand(cartShowCmd, cartAddCmd, cartRemoveCmd, cartSetCmd, cartClearCmd)
	rootCmd.AddCommand(cartCmd)
}

func parseID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return uint(id), nil
}

func runCartShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.sess.LoggedIn() {
		a.printer.Print("No hay sesión activa, el carrito está vacío")
		return nil
	}

	a.cart.Fetch(cmd.Context())

	lines := a.cart.Lines()
	if len(lines) == 0 {
		a.printer.Print("El carrito está vacío")
		return nil
	}

	table := output.NewTable([]string{"LINEA", "PRODUCTO", "NOMBRE", "PRECIO", "CANTIDAD"})
	for _, l := range lines {
		table.AddRow([]string{
			strconv.FormatUint(uint64(l.ID), 10),
			strconv.FormatUint(uint64(l.ProductID), 10),
			l.Nombre,
			fmt.Sprintf("%.2f", l.Precio),
			strconv.Itoa(l.Cantidad),
		})
	}
	table.Render()
	a.printer.Print("Total: %.2f", a.cart.Total())
	return nil
}

func runCartAdd(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	cantidad, _ := cmd.Flags().GetInt("cantidad")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	product, err := a.client.Product(cmd.Context(), id)
	if err != nil {
		a.printer.Error("Producto no encontrado")
		return err
	}

	a.cart.Add(cmd.Context(), product, cantidad)
	return nil
}

func runCartRemove(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	a.cart.Remove(cmd.Context(), id)
	return nil
}

func runCartSet(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	cantidad, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid quantity %q", args[1])
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	a.cart.UpdateQuantity(cmd.Context(), id, cantidad)
	return nil
}

func runCartClear(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	a.cart.Clear(cmd.Context())
	return nil
}
