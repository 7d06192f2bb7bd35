package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahinestrog/mystorefront/catalog"
	"github.com/ahinestrog/mystorefront/session"
)

type fixture struct {
	sh   *Shell
	sess *session.Session
	out  *bytes.Buffer
}

func newFixture(t *testing.T, pageSize int) *fixture {
	t.Helper()
	db, err := catalog.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	seed, err := catalog.DefaultSeed()
	require.NoError(t, err)
	repo := catalog.NewSQLiteRepo(db)
	require.NoError(t, catalog.Open(context.Background(), repo, seed))

	sess := session.New()
	svc := catalog.NewService(repo,
		catalog.WithRecentSearches(sess.Recent),
		catalog.WithTrending(seed.Trending),
	)
	out := &bytes.Buffer{}
	sh := NewShell(svc, sess, out, pageSize, zerolog.Nop())
	t.Cleanup(sh.Close)
	return &fixture{sh: sh, sess: sess, out: out}
}

// exec runs one line and returns what it printed.
func (f *fixture) exec(t *testing.T, line string) string {
	t.Helper()
	f.out.Reset()
	require.NoError(t, f.sh.Exec(context.Background(), line))
	return f.out.String()
}

func TestShell_Add(t *testing.T) {
	f := newFixture(t, 20)

	out := f.exec(t, "add p1 2")
	assert.Equal(t, "Added 2 × Premium Wireless Headphones (now 2 in cart)\n", out)

	// unparsable quantity falls back to one
	f.exec(t, "add p1 lots")
	it, ok := f.sess.Cart.Item("p1")
	require.True(t, ok)
	assert.Equal(t, 3, it.Quantity)

	// picker never goes past stock
	f.exec(t, "add p4 100")
	it, _ = f.sess.Cart.Item("p4")
	assert.Equal(t, 30, it.Quantity)

	err := f.sh.Exec(context.Background(), "add nope")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	err = f.sh.Exec(context.Background(), "add")
	assert.EqualError(t, err, "usage: add <id> [qty]")
}

func TestShell_Stepper(t *testing.T) {
	f := newFixture(t, 20)
	f.exec(t, "add p7")

	assert.Equal(t, "Smartphone Case Premium × 2 = Rp 178.000\n", f.exec(t, "inc p7"))
	f.exec(t, "dec p7")
	assert.Equal(t, "Removed p7\n", f.exec(t, "dec p7"))
	assert.False(t, f.sess.Cart.Contains("p7"))

	err := f.sh.Exec(context.Background(), "inc p7")
	assert.EqualError(t, err, "p7 is not in the cart")

	f.exec(t, "add p2")
	f.exec(t, "qty p2 4")
	assert.Equal(t, 4, f.sess.Cart.Count())
	f.exec(t, "qty p2 0")
	assert.Zero(t, f.sess.Cart.Len())

	err = f.sh.Exec(context.Background(), "qty p2 x")
	assert.Error(t, err)
}

func TestShell_BadgeFollowsCart(t *testing.T) {
	f := newFixture(t, 20)
	assert.Equal(t, "cart: -  wishlist: 0\n", f.exec(t, "badge"))

	f.exec(t, "add p1")
	assert.Equal(t, "cart: 1  wishlist: 0\n", f.exec(t, "badge"))
	f.exec(t, "qty p1 99")
	f.exec(t, "add p7")
	f.exec(t, "fav p3")
	assert.Equal(t, "cart: 99+  wishlist: 1\n", f.exec(t, "badge"))

	f.exec(t, "clear")
	assert.Equal(t, "cart: -  wishlist: 1\n", f.exec(t, "badge"))
}

func TestShell_CartAndCheckout(t *testing.T) {
	f := newFixture(t, 20)
	f.exec(t, "add p1")
	f.exec(t, "add p7 2")

	out := f.exec(t, "cart")
	assert.Contains(t, out, "[x] p1")
	assert.Contains(t, out, "[x] p7")
	assert.Contains(t, out, "Cart: 3 items, Rp 628.000")

	out = f.exec(t, "select p7")
	assert.Contains(t, out, "[ ] p7")
	assert.Contains(t, out, "Selected: 1 items, Rp 450.000 (you save Rp 149.000)")

	out = f.exec(t, "checkout")
	assert.Equal(t, "Order placed: 1 items, Rp 450.000\nYou saved Rp 149.000\n", out)
	assert.False(t, f.sess.Cart.Contains("p1"))
	assert.True(t, f.sess.Cart.Contains("p7"))

	assert.Equal(t, "Select at least one item to check out\n", f.exec(t, "checkout"))
}

func TestShell_CheckoutOutOfStock(t *testing.T) {
	f := newFixture(t, 20)
	f.exec(t, "add p1 25")
	f.exec(t, "add p1 1")
	f.exec(t, "cart")

	err := f.sh.Exec(context.Background(), "checkout")
	assert.EqualError(t, err, "out of stock: Premium Wireless Headphones (requested 26, available 25)")
	assert.Equal(t, 26, f.sess.Cart.Count())
}

func TestShell_SelectAll(t *testing.T) {
	f := newFixture(t, 20)
	f.exec(t, "add p1")
	f.exec(t, "add p2")
	f.exec(t, "cart")

	out := f.exec(t, "selectall")
	assert.Equal(t, 2, strings.Count(out, "[ ]"))
	out = f.exec(t, "selectall")
	assert.Equal(t, 2, strings.Count(out, "[x]"))
}

func TestShell_SearchAndRecent(t *testing.T) {
	f := newFixture(t, 20)

	out := f.exec(t, "search")
	assert.Contains(t, out, "Trending: iPhone 15")
	assert.NotContains(t, out, "Recent:")

	out = f.exec(t, "search Wireless")
	assert.Contains(t, out, "3 products, page 1/1")
	assert.Contains(t, out, "Premium Wireless Headphones")

	assert.Equal(t, "No products found\n", f.exec(t, "search unicorn"))
	assert.Equal(t, "  unicorn\n  Wireless\n", f.exec(t, "recent"))

	f.exec(t, "recent clear")
	assert.Equal(t, "No recent searches\n", f.exec(t, "recent"))
}

func TestShell_CategoryPaging(t *testing.T) {
	f := newFixture(t, 3)

	out := f.exec(t, "category")
	assert.Contains(t, out, "* all")
	assert.Contains(t, out, "electronics")

	out = f.exec(t, "category electronics")
	assert.Contains(t, out, "8 products, page 1/3")
	out = f.exec(t, "next")
	assert.Contains(t, out, "page 2/3")

	out = f.exec(t, "sort price_asc")
	assert.True(t, strings.HasPrefix(out, "Sorting by price_asc\n8 products, page 1/3\n"))
	assert.Contains(t, out, "Wireless Power Bank")
}

func TestShell_Favorites(t *testing.T) {
	f := newFixture(t, 20)
	assert.Equal(t, "Your wishlist is empty\n", f.exec(t, "favs"))

	assert.Equal(t, "♥ Smart Watch Fitness Tracker added to wishlist\n", f.exec(t, "fav p2"))
	assert.Contains(t, f.exec(t, "favs"), "♥ p2")
	assert.Contains(t, f.exec(t, "show p2"), "♥ in wishlist")

	f.exec(t, "fav p2")
	assert.False(t, f.sess.Favorites.IsFavorite("p2"))
}

func TestShell_Show(t *testing.T) {
	f := newFixture(t, 20)
	f.exec(t, "add p1 2")

	out := f.exec(t, "show p1")
	assert.Contains(t, out, "price:   Rp 450.000 (was Rp 599.000, -25%)")
	assert.Contains(t, out, "rating:  4.8 (1.2k sold)")
	assert.Contains(t, out, "in cart: 2")
}

func TestShell_Run(t *testing.T) {
	f := newFixture(t, 20)
	in := strings.NewReader("add p1\nbogus\n\nquit\nadd p2\n")

	require.NoError(t, f.sh.Run(context.Background(), in))
	assert.Contains(t, f.out.String(), `error: unknown command "bogus"`)
	assert.Contains(t, f.out.String(), "[cart 1]> ")
	assert.True(t, f.sess.Cart.Contains("p1"))
	assert.False(t, f.sess.Cart.Contains("p2"))
}

func TestShell_Help(t *testing.T) {
	f := newFixture(t, 20)
	out := f.exec(t, "help")
	assert.Contains(t, out, "add <id> [qty]")
	assert.Contains(t, out, "checkout")
}

func TestShell_NextStopsAtLastPage(t *testing.T) {
	f := newFixture(t, 3)
	assert.Equal(t, "Nothing listed yet (try search or category)\n", f.exec(t, "next"))

	f.exec(t, "category electronics")
	f.exec(t, "next")
	assert.Contains(t, f.exec(t, "next"), "8 products, page 3/3")

	assert.Equal(t, "Already on the last page (3/3)\n", f.exec(t, "next"))
	assert.Equal(t, "Already on the last page (3/3)\n", f.exec(t, "next"))
	assert.Equal(t, 3, f.sh.page)

	// a new listing starts over
	assert.Contains(t, f.exec(t, "search gaming"), "2 products, page 1/1")
	assert.Equal(t, "Already on the last page (1/1)\n", f.exec(t, "next"))
}

func TestShell_SearchTreatsWildcardsLiterally(t *testing.T) {
	f := newFixture(t, 20)
	assert.Equal(t, "No products found\n", f.exec(t, "search %"))
	assert.Equal(t, "No products found\n", f.exec(t, "search _"))
}

func TestShell_RunReturnsWhenCancelled(t *testing.T) {
	f := newFixture(t, 20)
	f.exec(t, "add p1")

	in, w := io.Pipe()
	defer w.Close()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.sh.Run(ctx, in) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	// session teardown happens on this goroutine once Run is back
	f.sess.End()
	assert.Equal(t, "cart: -  wishlist: 0\n", f.exec(t, "badge"))
}
