package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tiendago/storefront/internal/models"
	"github.com/tiendago/storefront/internal/output"
)

var vendorCmd = &cobra.Command{
	Use:   "vendor",
	Short: "Vendor dashboard (vendor role)",
}

var vendorProductsCmd = &cobra.Command{
	Use:   "products",
	Short: "List the vendor's products",
	RunE:  runVendorProducts,
}

var vendorAddProductCmd = &cobra.Command{
	Use:   "add-product <nombre>",
	Short: "Publish a product",
	Args:  cobra.ExactArgs(1),
	RunE:  runVendorAddProduct,
}

var vendorOrdersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List orders containing the vendor's products",
	RunE:  runVendorOrders,
}

var vendorStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show sales statistics",
	RunE:  runVendorStats,
}

func init() {
	vendorAddProductCmd.Flags().Float64("precio", 0, "unit price")
	vendorAddProductCmd.Flags().String("descripcion", "", "description")
	vendorAddProductCmd.Flags().String("categoria", "", "category")
	vendorAddProductCmd.Flags().Uint("stock", 0, "initial stock")

	vendorCmd.AddCommand(vendorProductsCmd, vendorAddProductCmd, vendorOrdersCmd, vendorStatsCmd)
	rootCmd.AddCommand(vendorCmd)
}

func runVendorProducts(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	products, err := a.client.VendorProducts(cmd.Context())
	if err != nil {
		a.printer.Error("Acceso denegado o error del servidor")
		return err
	}

	table := output.NewTable([]string{"ID", "NOMBRE", "PRECIO", "STOCK"})
	for _, p := range products {
		table.AddRow([]string{
			strconv.FormatUint(uint64(p.ID), 10),
			p.Nombre,
			fmt.Sprintf("%.2f", p.Precio),
			strconv.FormatUint(uint64(p.Stock), 10),
		})
	}
	table.Render()
	return nil
}

func runVendorAddProduct(cmd *cobra.Command, args []string) error {
	precio, _ := cmd.Flags().GetFloat64("precio")
	descripcion, _ := cmd.Flags().GetString("descripcion")
	categoria, _ := cmd.Flags().GetString("categoria")
	stock, _ := cmd.Flags().GetUint("stock")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	product, err := a.client.VendorCreateProduct(cmd.Context(), models.Product{
		Nombre:      args[0],
		Descripcion: descripcion,
		Precio:      precio,
		Categoria:   categoria,
		Stock:       stock,
	})
	if err != nil {
		a.printer.Error("No se pudo publicar el producto")
		return err
	}

	a.printer.Success("Producto %d publicado", product.ID)
	return nil
}

func runVendorOrders(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	orders, err := a.client.VendorOrders(cmd.Context())
	if err != nil {
		a.printer.Error("Acceso denegado o error del servidor")
		return err
	}

	table := output.NewTable([]string{"ID", "ARTICULOS", "TOTAL"})
	for _, o := range orders {
		table.AddRow([]string{
			strconv.FormatUint(uint64(o.ID), 10),
			strconv.Itoa(len(o.Items)),
			fmt.Sprintf("%.2f", o.Total),
		})
	}
	table.Render()
	return nil
}

func runVendorStats(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	stats, err := a.client.VendorStats(cmd.Context())
	if err != nil {
		a.printer.Error("Acceso denegado o error del servidor")
		return err
	}

	a.printer.Print("Productos: %d", stats.Productos)
	a.printer.Print("Pedidos: %d", stats.Ordenes)
	a.printer.Print("Ventas totales: %.2f", stats.TotalVentas)
	return nil
}
