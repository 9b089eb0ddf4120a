package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tiendago/storefront/internal/output"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administration dashboard (admin role)",
}

var adminProductsCmd = &cobra.Command{
	Use:   "products",
	Short: "List every product",
	RunE:  runAdminProducts,
}

var adminDeleteProductCmd = &cobra.Command{
	Use:   "rm-product <id>",
	Short: "Delete a product",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminDeleteProduct,
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List every user",
	RunE:  runAdminUsers,
}

var adminPaymentsCmd = &cobra.Command{
	Use:   "payments",
	Short: "List payments",
	RunE:  runAdminPayments,
}

var adminConfigCmd = &cobra.Command{
	Use:   "config [clave=valor...]",
	Short: "Show or update the platform configuration",
	RunE:  runAdminConfig,
}

func init() {
	adminCmd.AddCommand(adminProductsCmd, adminDeleteProductCmd, adminUsersCmd, adminPaymentsCmd, adminConfigCmd)
	rootCmd.AddCommand(adminCmd)
}

func runAdminProducts(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	products, err := a.client.AdminProducts(cmd.Context())
	if err != nil {
		a.printer.Error("Acceso denegado o error del servidor")
		return err
	}

	table := output.NewTable([]string{"ID", "NOMBRE", "PRECIO", "CATEGORIA", "STOCK"})
	for _, p := range products {
		table.AddRow([]string{
			strconv.FormatUint(uint64(p.ID), 10),
			p.Nombre,
			fmt.Sprintf("%.2f", p.Precio),
			p.Categoria,
			strconv.FormatUint(uint64(p.Stock), 10),
		})
	}
	table.Render()
	return nil
}

func runAdminDeleteProduct(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.client.AdminDeleteProduct(cmd.Context(), id); err != nil {
		a.printer.Error("No se pudo eliminar el producto")
		return err
	}
	a.printer.Success("Producto %d eliminado", id)
	return nil
}

func runAdminUsers(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	users, err := a.client.AdminUsers(cmd.Context())
	if err != nil {
		a.printer.Error("Acceso denegado o error del servidor")
		return err
	}

	table := output.NewTable([]string{"ID", "NOMBRE", "EMAIL", "ROL"})
	for _, u := range users {
		table.AddRow([]string{
			strconv.FormatUint(uint64(u.ID), 10),
			u.Nombre,
			u.Email,
			u.RoleTag(),
		})
	}
	table.Render()
	return nil
}

func runAdminConfig(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var cfg map[string]any
	if len(args) > 0 {
		patch := make(map[string]any, len(args))
		for _, arg := range args {
			key, value, found := strings.Cut(arg, "=")
			if !found || key == "" {
				return fmt.Errorf("invalid setting %q, expected clave=valor", arg)
			}
			patch[key] = parseSettingValue(value)
		}
		cfg, err = a.client.AdminPatchConfig(cmd.Context(), patch)
	} else {
		cfg, err = a.client.AdminConfig(cmd.Context())
	}
	if err != nil {
		a.printer.Error("Acceso denegado o error del servidor")
		return err
	}

	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	table := output.NewTable([]string{"CLAVE", "VALOR"})
	for _, k := range keys {
		table.AddRow([]string{k, fmt.Sprint(cfg[k])})
	}
	table.Render()
	return nil
}

// parseSettingValue keeps booleans and numbers typed so the server stores
// them as JSON values, not strings.
func parseSettingValue(v string) any {
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return v
}

func runAdminPayments(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	payments, err := a.client.AdminPayments(cmd.Context())
	if err != nil {
		a.printer.Error("Acceso denegado o error del servidor")
		return err
	}

	table := output.NewTable([]string{"ID", "PEDIDO", "EMAIL", "TOTAL", "ESTADO"})
	for _, p := range payments {
		table.AddRow([]string{
			strconv.FormatUint(uint64(p.ID), 10),
			strconv.FormatUint(uint64(p.OrderID), 10),
			p.Email,
			fmt.Sprintf("%.2f", p.Total),
			p.Status,
		})
	}
	table.Render()
	return nil
}
