package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tiendago/storefront/internal/models"
	"github.com/tiendago/storefront/internal/output"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Browse the catalog",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	RunE:  runProductsList,
}

var productsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one product",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductsShow,
}

func init() {
	productsListCmd.Flags().String("categoria", "", "filter by category")
	productsListCmd.Flags().String("buscar", "", "filter by name or description")

	productsCmd.AddCommand(productsListCmd, productsShowCmd)
	rootCmd.AddCommand(productsCmd)
}

func runProductsList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	products, err := a.client.Products(cmd.Context())
	if err != nil {
		a.printer.Error("No se pudo cargar el catálogo")
		return err
	}

	categoria, _ := cmd.Flags().GetString("categoria")
	buscar, _ := cmd.Flags().GetString("buscar")
	products = filterProducts(products, categoria, buscar)

	table := output.NewTable([]string{"ID", "NOMBRE", "PRECIO", "CATEGORIA", "RATING"})
	for _, p := range products {
		table.AddRow([]string{
			strconv.FormatUint(uint64(p.ID), 10),
			p.Nombre,
			fmt.Sprintf("%.2f", p.Precio),
			p.Categoria,
			fmt.Sprintf("%.1f", p.Rating),
		})
	}
	table.Render()
	return nil
}

// filterProducts applies the browse filters client-side; the catalog
// endpoint has no query parameters.
func filterProducts(products []models.Product, categoria, buscar string) []models.Product {
	if categoria == "" && buscar == "" {
		return products
	}
	q := strings.ToLower(buscar)
	out := products[:0]
	for _, p := range products {
		if categoria != "" && !strings.EqualFold(p.Categoria, categoria) {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Nombre), q) &&
			!strings.Contains(strings.ToLower(p.Descripcion), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func runProductsShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid product id %q", args[0])
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.client.Product(cmd.Context(), uint(id))
	if err != nil {
		a.printer.Error("Producto no encontrado")
		return err
	}

	a.printer.Print("%s", a.printer.Bold(p.Nombre))
	a.printer.Print("%s", p.Descripcion)
	a.printer.Print("Precio: %.2f  Categoría: %s  Rating: %.1f", p.Precio, p.Categoria, p.Rating)
	return nil
}
