package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ahinestrog/mystorefront/cart"
	"github.com/ahinestrog/mystorefront/catalog"
	"github.com/ahinestrog/mystorefront/money"
	"github.com/ahinestrog/mystorefront/session"
)

var errQuit = errors.New("quit")

type handler func(ctx context.Context, args []string) error

type command struct {
	usage string
	help  string
	fn    handler
}

// Shell is the text front end: every command maps onto one screen action of the
// storefront (search box, category chips, product page, cart screen, wishlist).
type Shell struct {
	catalog  *catalog.Service
	sess     *session.Session
	out      io.Writer
	log      zerolog.Logger
	pageSize int

	category string
	sort     catalog.Sort
	page       int
	totalPages int
	lastText   string

	badge       string
	unsubscribe func()

	commands map[string]command
}

func NewShell(svc *catalog.Service, sess *session.Session, out io.Writer, pageSize int, l zerolog.Logger) *Shell {
	sh := &Shell{
		catalog:  svc,
		sess:     sess,
		out:      out,
		log:      l.With().Str("component", "shell").Logger(),
		pageSize: pageSize,
		category: catalog.AllCategories,
		sort:     catalog.SortRelevance,
		page:     1,
		badge:    sess.Cart.Badge(),
	}
	// tab bar badge follows the cart
	sh.unsubscribe = sess.Cart.Subscribe(func(ev cart.Event) {
		sh.badge = cart.BadgeLabel(ev.Count)
	})

	sh.commands = map[string]command{}
	sh.handle("search", "search [text]", "search products, or show recent and trending searches", sh.handleSearch)
	sh.handle("next", "next", "next page of the last listing", sh.handleNext)
	sh.handle("category", "category [id]", "list categories, or browse one", sh.handleCategory)
	sh.handle("sort", "sort <mode>", "relevance, price_asc, price_desc, rating or sold", sh.handleSort)
	sh.handle("show", "show <id>", "product details", sh.handleShow)
	sh.handle("add", "add <id> [qty]", "add to cart", sh.handleAdd)
	sh.handle("inc", "inc <id>", "one more of a cart line", sh.handleInc)
	sh.handle("dec", "dec <id>", "one less of a cart line (removes at zero)", sh.handleDec)
	sh.handle("qty", "qty <id> <n>", "set the quantity of a cart line", sh.handleQty)
	sh.handle("remove", "remove <id>", "remove a cart line", sh.handleRemove)
	sh.handle("clear", "clear", "empty the cart", sh.handleClear)
	sh.handle("cart", "cart", "open the cart with every line selected", sh.handleCart)
	sh.handle("select", "select <id>", "tick or untick a cart line for checkout", sh.handleSelect)
	sh.handle("selectall", "selectall", "tick all lines, or untick all when all are ticked", sh.handleSelectAll)
	sh.handle("checkout", "checkout", "buy the selected lines", sh.handleCheckout)
	sh.handle("fav", "fav <id>", "toggle wishlist", sh.handleFav)
	sh.handle("favs", "favs", "show the wishlist", sh.handleFavs)
	sh.handle("recent", "recent [clear]", "recent searches", sh.handleRecent)
	sh.handle("badge", "badge", "cart and wishlist badges", sh.handleBadge)
	sh.handle("help", "help", "this list", sh.handleHelp)
	sh.handle("quit", "quit", "end the session", func(context.Context, []string) error { return errQuit })
	return sh
}

func (sh *Shell) handle(name, usage, help string, fn handler) {
	sh.commands[name] = command{usage: usage, help: help, fn: fn}
}

func (sh *Shell) Close() { sh.unsubscribe() }

// Run reads commands from in until EOF, quit, or ctx is done. Commands always run
// on the caller's goroutine.
func (sh *Shell) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- sc.Err()
	}()

	sh.prompt()
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errc:
					return err
				default:
					return nil
				}
			}
			err := sh.Exec(ctx, line)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				fmt.Fprintf(sh.out, "error: %v\n", err)
			}
			sh.prompt()
		}
	}
}

func (sh *Shell) prompt() {
	if sh.badge != "" {
		fmt.Fprintf(sh.out, "[cart %s]> ", sh.badge)
		return
	}
	fmt.Fprint(sh.out, "> ")
}

// Exec runs one command line.
func (sh *Shell) Exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name := strings.ToLower(fields[0])
	if name == "exit" {
		name = "quit"
	}
	cmd, ok := sh.commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q (try help)", fields[0])
	}
	sh.log.Debug().Str("cmd", name).Strs("args", fields[1:]).Msg("exec")
	return cmd.fn(ctx, fields[1:])
}

func needArgs(args []string, n int, usage string) error {
	if len(args) < n {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}

// ---- catalogo ----

func (sh *Shell) handleSearch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		if recent := sh.catalog.Recent(); len(recent) > 0 {
			fmt.Fprintf(sh.out, "Recent: %s\n", strings.Join(recent, ", "))
		}
		fmt.Fprintf(sh.out, "Trending: %s\n", strings.Join(sh.catalog.Trending(), ", "))
		return nil
	}
	sh.lastText = strings.Join(args, " ")
	sh.page = 1
	return sh.list(ctx)
}

// handleNext moves forward within the last listing and stays on its final page.
func (sh *Shell) handleNext(ctx context.Context, _ []string) error {
	if sh.totalPages == 0 {
		fmt.Fprintln(sh.out, "Nothing listed yet (try search or category)")
		return nil
	}
	if sh.page >= sh.totalPages {
		fmt.Fprintf(sh.out, "Already on the last page (%d/%d)\n", sh.page, sh.totalPages)
		return nil
	}
	sh.page++
	return sh.list(ctx)
}

func (sh *Shell) handleCategory(ctx context.Context, args []string) error {
	if len(args) == 0 {
		cats, err := sh.catalog.Categories(ctx)
		if err != nil {
			return err
		}
		for _, c := range cats {
			mark := " "
			if c.ID == sh.category {
				mark = "*"
			}
			fmt.Fprintf(sh.out, "%s %-12s %-16s %d\n", mark, c.ID, c.Name, c.Count)
		}
		return nil
	}
	sh.category = strings.ToLower(args[0])
	sh.lastText = ""
	sh.page = 1
	return sh.list(ctx)
}

func (sh *Shell) handleSort(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "sort <mode>"); err != nil {
		return err
	}
	sh.sort = catalog.ParseSort(args[0])
	sh.page = 1
	fmt.Fprintf(sh.out, "Sorting by %s\n", sh.sort)
	return sh.list(ctx)
}

func (sh *Shell) list(ctx context.Context) error {
	page, err := sh.catalog.Search(ctx, catalog.Query{
		Text:     sh.lastText,
		Category: sh.category,
		Sort:     sh.sort,
		Page:     sh.page,
		PageSize: sh.pageSize,
	})
	if err != nil {
		return err
	}
	sh.page = page.Page
	sh.totalPages = page.TotalPages
	if page.TotalItems == 0 {
		fmt.Fprintln(sh.out, "No products found")
		return nil
	}
	if len(page.Items) == 0 {
		fmt.Fprintf(sh.out, "No more results (%d pages)\n", page.TotalPages)
		return nil
	}
	fmt.Fprintf(sh.out, "%d products, page %d/%d\n", page.TotalItems, page.Page, page.TotalPages)
	for _, p := range page.Items {
		sh.printRow(p)
	}
	return nil
}

func (sh *Shell) printRow(p *catalog.Product) {
	fav := " "
	if sh.sess.Favorites.IsFavorite(p.ID) {
		fav = "♥"
	}
	disc := ""
	if d := p.Discount(); d > 0 {
		disc = fmt.Sprintf(" -%d%%", d)
	}
	fmt.Fprintf(sh.out, "%s %-4s %-34s %14s%s  ★%.1f  %s sold\n",
		fav, p.ID, p.Name, money.Format(p.Price), disc, p.Rating, money.CompactCount(p.Sold))
}

func (sh *Shell) handleShow(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "show <id>"); err != nil {
		return err
	}
	p, err := sh.catalog.Product(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "%s\n", p.Name)
	fmt.Fprintf(sh.out, "  price:   %s", money.Format(p.Price))
	if d := p.Discount(); d > 0 {
		fmt.Fprintf(sh.out, " (was %s, -%d%%)", money.Format(p.OriginalPrice), d)
	}
	fmt.Fprintln(sh.out)
	fmt.Fprintf(sh.out, "  seller:  %s, %s\n", p.Seller, p.Location)
	fmt.Fprintf(sh.out, "  rating:  %.1f (%s sold)\n", p.Rating, money.CompactCount(p.Sold))
	fmt.Fprintf(sh.out, "  stock:   %d\n", p.Stock)
	if it, ok := sh.sess.Cart.Item(p.ID); ok {
		fmt.Fprintf(sh.out, "  in cart: %d\n", it.Quantity)
	}
	if sh.sess.Favorites.IsFavorite(p.ID) {
		fmt.Fprintln(sh.out, "  ♥ in wishlist")
	}
	return nil
}

// ---- carrito ----

func (sh *Shell) handleAdd(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "add <id> [qty]"); err != nil {
		return err
	}
	p, err := sh.catalog.Product(ctx, args[0])
	if err != nil {
		return err
	}
	qty := 1
	if len(args) > 1 {
		// bad input falls back to the picker's minimum
		qty, _ = strconv.Atoi(args[1])
	}
	qty = cart.ClampDraft(qty, p.Stock)
	sh.sess.Cart.AddItem(p.CartProduct(), qty)
	it, _ := sh.sess.Cart.Item(p.ID)
	fmt.Fprintf(sh.out, "Added %d × %s (now %d in cart)\n", qty, p.Name, it.Quantity)
	return nil
}

func (sh *Shell) inCart(id string) error {
	if !sh.sess.Cart.Contains(id) {
		return fmt.Errorf("%s is not in the cart", id)
	}
	return nil
}

func (sh *Shell) printLine(id string) {
	if it, ok := sh.sess.Cart.Item(id); ok {
		fmt.Fprintf(sh.out, "%s × %d = %s\n", it.Name, it.Quantity, money.Format(it.LineTotal()))
		return
	}
	fmt.Fprintf(sh.out, "Removed %s\n", id)
}

func (sh *Shell) handleInc(_ context.Context, args []string) error {
	if err := needArgs(args, 1, "inc <id>"); err != nil {
		return err
	}
	if err := sh.inCart(args[0]); err != nil {
		return err
	}
	sh.sess.Cart.Increment(args[0])
	sh.printLine(args[0])
	return nil
}

func (sh *Shell) handleDec(_ context.Context, args []string) error {
	if err := needArgs(args, 1, "dec <id>"); err != nil {
		return err
	}
	if err := sh.inCart(args[0]); err != nil {
		return err
	}
	sh.sess.Cart.Decrement(args[0])
	sh.printLine(args[0])
	return nil
}

func (sh *Shell) handleQty(_ context.Context, args []string) error {
	if err := needArgs(args, 2, "qty <id> <n>"); err != nil {
		return err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("quantity %q: %w", args[1], err)
	}
	if err := sh.inCart(args[0]); err != nil {
		return err
	}
	sh.sess.Cart.UpdateQuantity(args[0], n)
	sh.printLine(args[0])
	return nil
}

func (sh *Shell) handleRemove(_ context.Context, args []string) error {
	if err := needArgs(args, 1, "remove <id>"); err != nil {
		return err
	}
	sh.sess.Cart.RemoveItem(args[0])
	fmt.Fprintf(sh.out, "Removed %s\n", args[0])
	return nil
}

func (sh *Shell) handleClear(context.Context, []string) error {
	sh.sess.Cart.Clear()
	fmt.Fprintln(sh.out, "Cart emptied")
	return nil
}

func (sh *Shell) handleCart(context.Context, []string) error {
	sh.sess.OpenCart()
	sh.printCart()
	return nil
}

func (sh *Shell) printCart() {
	items := sh.sess.Cart.Items()
	if len(items) == 0 {
		fmt.Fprintln(sh.out, "Your cart is empty")
		return
	}
	sel := sh.sess.Selection()
	for _, it := range items {
		mark := "[ ]"
		if sel.IsSelected(it.ID) {
			mark = "[x]"
		}
		fmt.Fprintf(sh.out, "%s %-4s %-34s %d × %s = %s\n",
			mark, it.ID, it.Name, it.Quantity, money.Format(it.Price), money.Format(it.LineTotal()))
	}
	sum := sel.Summary()
	fmt.Fprintf(sh.out, "Cart: %d items, %s\n", sh.sess.Cart.Count(), money.Format(sh.sess.Cart.Total()))
	fmt.Fprintf(sh.out, "Selected: %d items, %s", sum.Quantity, money.Format(sum.Total))
	if sum.Savings > 0 {
		fmt.Fprintf(sh.out, " (you save %s)", money.Format(sum.Savings))
	}
	fmt.Fprintln(sh.out)
}

func (sh *Shell) handleSelect(_ context.Context, args []string) error {
	if err := needArgs(args, 1, "select <id>"); err != nil {
		return err
	}
	if err := sh.inCart(args[0]); err != nil {
		return err
	}
	sh.sess.Selection().Toggle(args[0])
	sh.printCart()
	return nil
}

func (sh *Shell) handleSelectAll(context.Context, []string) error {
	sh.sess.Selection().ToggleAll()
	sh.printCart()
	return nil
}

// handleCheckout checks stock for the selected lines, then takes them out of the
// cart. Unselected lines stay.
func (sh *Shell) handleCheckout(ctx context.Context, _ []string) error {
	sel := sh.sess.Selection()
	sum, err := sel.Checkout()
	if errors.Is(err, cart.ErrNothingSelected) {
		fmt.Fprintln(sh.out, "Select at least one item to check out")
		return nil
	}
	if err != nil {
		return err
	}

	ids := sel.IDs()
	for _, id := range ids {
		it, ok := sh.sess.Cart.Item(id)
		if !ok {
			continue
		}
		p, err := sh.catalog.Product(ctx, id)
		if err != nil {
			return fmt.Errorf("check stock: %w", err)
		}
		if p.Stock > 0 && it.Quantity > p.Stock {
			return fmt.Errorf("out of stock: %s (requested %d, available %d)", p.Name, it.Quantity, p.Stock)
		}
	}

	for _, id := range ids {
		sh.sess.Cart.RemoveItem(id)
	}
	sh.log.Info().
		Int("lines", sum.Lines).
		Int("quantity", sum.Quantity).
		Int64("total", sum.Total).
		Msg("checkout")
	fmt.Fprintf(sh.out, "Order placed: %d items, %s\n", sum.Quantity, money.Format(sum.Total))
	if sum.Savings > 0 {
		fmt.Fprintf(sh.out, "You saved %s\n", money.Format(sum.Savings))
	}
	return nil
}

// ---- favoritos ----

func (sh *Shell) handleFav(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "fav <id>"); err != nil {
		return err
	}
	p, err := sh.catalog.Product(ctx, args[0])
	if err != nil {
		return err
	}
	if sh.sess.Favorites.Toggle(p.ID) {
		fmt.Fprintf(sh.out, "♥ %s added to wishlist\n", p.Name)
	} else {
		fmt.Fprintf(sh.out, "%s removed from wishlist\n", p.Name)
	}
	return nil
}

func (sh *Shell) handleFavs(ctx context.Context, _ []string) error {
	ids := sh.sess.Favorites.IDs()
	if len(ids) == 0 {
		fmt.Fprintln(sh.out, "Your wishlist is empty")
		return nil
	}
	for _, id := range ids {
		p, err := sh.catalog.Product(ctx, id)
		if err != nil {
			return err
		}
		sh.printRow(p)
	}
	return nil
}

func (sh *Shell) handleRecent(_ context.Context, args []string) error {
	if len(args) > 0 && strings.EqualFold(args[0], "clear") {
		sh.catalog.ClearRecent()
		fmt.Fprintln(sh.out, "Recent searches cleared")
		return nil
	}
	recent := sh.catalog.Recent()
	if len(recent) == 0 {
		fmt.Fprintln(sh.out, "No recent searches")
		return nil
	}
	for _, r := range recent {
		fmt.Fprintf(sh.out, "  %s\n", r)
	}
	return nil
}

func (sh *Shell) handleBadge(context.Context, []string) error {
	badge := sh.badge
	if badge == "" {
		badge = "-"
	}
	fmt.Fprintf(sh.out, "cart: %s  wishlist: %d\n", badge, sh.sess.Favorites.Count())
	return nil
}

func (sh *Shell) handleHelp(context.Context, []string) error {
	names := make([]string, 0, len(sh.commands))
	for n := range sh.commands {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		c := sh.commands[n]
		fmt.Fprintf(sh.out, "  %-16s %s\n", c.usage, c.help)
	}
	return nil
}
