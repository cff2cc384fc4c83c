package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"storefront/client/internal/cart"
	"storefront/client/internal/catalog"
	"storefront/client/internal/domain"

	"github.com/spf13/pflag"
)

var ErrUsage = errors.New("usage")

const usage = `usage:
  categories
  browse [--category C] [--query Q] [--min N] [--max N] [--sort MODE] [--page P]
  product <id>
  cart
  cart add <id> [--qty N] [--color C] [--size S]
  cart update <id> <qty> [--color C] [--size S]
  cart remove <id> [--color C] [--size S]
  cart clear`

type Service interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	Browse(ctx context.Context, criteria catalog.Criteria) (catalog.Result, error)
	Product(ctx context.Context, id int64) (*domain.Product, error)
	AddToCart(ctx context.Context, id int64, quantity int, variant domain.Variant) (*domain.Product, error)
	Cart() *cart.Store
}

type CLI struct {
	svc Service
	out io.Writer
}

func New(svc Service, out io.Writer) *CLI {
	return &CLI{svc: svc, out: out}
}

func Usage() string {
	return usage
}

func (c *CLI) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "categories":
		return c.categories(ctx)
	case "browse":
		return c.browse(ctx, args[1:])
	case "product":
		return c.product(ctx, args[1:])
	case "cart":
		return c.cart(ctx, args[1:])
	default:
		return usageError("unknown command %q", args[0])
	}
}

func (c *CLI) categories(ctx context.Context) error {
	categories, err := c.svc.Categories(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSLUG\tPRODUCTS")
	for _, cat := range categories {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", cat.ID, cat.Name, cat.Slug, cat.ProductCount)
	}
	return w.Flush()
}

func (c *CLI) browse(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("browse", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	category := fs.String("category", "", "category slug, name or id")
	query := fs.StringP("query", "q", "", "search in name and description")
	minPrice := fs.String("min", "", "minimum price")
	maxPrice := fs.String("max", "", "maximum price")
	sortMode := fs.String("sort", string(catalog.SortRelevance), "relevance|price-low|price-high|name|newest")
	page := fs.Int("page", 1, "page number")

	if err := fs.Parse(args); err != nil {
		return usageError("%v", err)
	}
	if *category == "" && fs.NArg() > 0 {
		*category = fs.Arg(0)
	}

	criteria := catalog.Criteria{
		Category: *category,
		Query:    *query,
		Sort:     catalog.ParseSortMode(*sortMode),
		Page:     *page,
	}
	if d, ok := domain.ParseAmount(*minPrice); ok {
		criteria.Price.Min = &d
	}
	if d, ok := domain.ParseAmount(*maxPrice); ok {
		criteria.Price.Max = &d
	}

	res, err := c.svc.Browse(ctx, criteria)
	if err != nil {
		return err
	}

	title := "All products"
	if res.Category != nil {
		title = res.Category.Name
	} else if criteria.Category != "" {
		title = criteria.Category
	}
	fmt.Fprintf(c.out, "%s: %d results, page %d of %d\n", title, res.Total, res.Page, res.TotalPages)

	if len(res.Products) == 0 {
		fmt.Fprintln(c.out, "No products found.")
		return nil
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tCATEGORY\tSTOCK")
	for _, p := range res.Products {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Price.StringFixed(2), p.CategoryName, formatStock(p.Stock))
	}
	return w.Flush()
}

func (c *CLI) product(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("product takes exactly one id")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	p, err := c.svc.Product(ctx, id)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID\t%d\n", p.ID)
	fmt.Fprintf(w, "Name\t%s\n", p.Name)
	fmt.Fprintf(w, "Price\t%s\n", p.Price.StringFixed(2))
	fmt.Fprintf(w, "Category\t%s\n", p.Category.Label())
	fmt.Fprintf(w, "Stock\t%s\n", formatStock(p.Stock))
	if len(p.Variants.Colors) > 0 {
		fmt.Fprintf(w, "Colors\t%s\n", strings.Join(p.Variants.Colors, ", "))
	}
	if len(p.Variants.Sizes) > 0 {
		fmt.Fprintf(w, "Sizes\t%s\n", strings.Join(p.Variants.Sizes, ", "))
	}
	if p.SellerName != "" {
		fmt.Fprintf(w, "Seller\t%s\n", p.SellerName)
	}
	if p.RatingCount > 0 {
		fmt.Fprintf(w, "Rating\t%.2f (%d)\n", p.RatingAvg, p.RatingCount)
	}
	if len(p.Images) > 0 {
		fmt.Fprintf(w, "Images\t%s\n", strings.Join(p.Images, ", "))
	}
	if p.Description != "" {
		fmt.Fprintf(w, "Description\t%s\n", p.Description)
	}
	return w.Flush()
}

func (c *CLI) cart(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return c.showCart()
	}

	store := c.svc.Cart()

	fs := pflag.NewFlagSet("cart "+args[0], pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	color := fs.String("color", "", "color variant")
	size := fs.String("size", "", "size variant")
	qty := fs.Int("qty", 1, "quantity")

	if err := fs.Parse(negativesAsArgs(args[1:])); err != nil {
		return usageError("%v", err)
	}
	variant := domain.Variant{Color: *color, Size: *size}
	rest := fs.Args()

	switch args[0] {
	case "add":
		if len(rest) != 1 {
			return usageError("cart add takes exactly one id")
		}
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}
		if _, err := c.svc.AddToCart(ctx, id, *qty, variant); err != nil {
			return err
		}
	case "update":
		if len(rest) != 2 {
			return usageError("cart update takes an id and a quantity")
		}
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}
		quantity, err := strconv.Atoi(rest[1])
		if err != nil {
			return usageError("invalid quantity %q", rest[1])
		}
		store.UpdateQuantity(ctx, id, quantity, variant)
	case "remove":
		if len(rest) != 1 {
			return usageError("cart remove takes exactly one id")
		}
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}
		store.RemoveItem(ctx, id, variant)
	case "clear":
		store.Clear(ctx)
	default:
		return usageError("unknown cart command %q", args[0])
	}

	return c.showCart()
}

func (c *CLI) showCart() error {
	store := c.svc.Cart()
	items := store.Items()

	if len(items) == 0 {
		fmt.Fprintln(c.out, "Your cart is empty.")
		return nil
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCOLOR\tSIZE\tQTY\tPRICE\tSUBTOTAL")
	for _, item := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\t%s\n",
			item.ProductID, item.Name, dash(item.Color), dash(item.Size), item.Quantity,
			item.UnitPrice.StringFixed(2), item.Subtotal().StringFixed(2))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "%d items, total %s\n", store.Count(), store.Total().StringFixed(2))
	return nil
}

// negativesAsArgs moves bare negative numbers such as the -1 in
// "update 5 -1" behind a "--" so pflag does not read them as shorthand
// flags. A number directly after a flag that takes a value stays put.
func negativesAsArgs(args []string) []string {
	out := make([]string, 0, len(args)+1)
	var negatives []string

	for i, arg := range args {
		if arg == "--" {
			out = append(out, args[i:]...)
			break
		}
		if isNegativeNumber(arg) && !expectsValue(args, i) {
			negatives = append(negatives, arg)
			continue
		}
		out = append(out, arg)
	}

	if len(negatives) == 0 {
		return out
	}
	if !slices.Contains(out, "--") {
		out = append(out, "--")
	}
	return append(out, negatives...)
}

func isNegativeNumber(s string) bool {
	if !strings.HasPrefix(s, "-") {
		return false
	}
	_, err := strconv.Atoi(s)
	return err == nil
}

func expectsValue(args []string, i int) bool {
	if i == 0 {
		return false
	}
	prev := args[i-1]
	return strings.HasPrefix(prev, "-") && !strings.Contains(prev, "=") && !isNegativeNumber(prev)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, usageError("invalid product id %q", s)
	}
	return id, nil
}

func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}

func formatStock(stock *int) string {
	if stock == nil {
		return "-"
	}
	return strconv.Itoa(*stock)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
