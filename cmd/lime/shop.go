package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/limestore/limectl/internal/api"
	"github.com/limestore/limectl/internal/cart"
	"github.com/limestore/limectl/internal/format"
	"github.com/limestore/limectl/internal/model"
)

// ---- catalog ----

func cmdProducts(a *app, args []string) {
	fs := flag.NewFlagSet("products", flag.ExitOnError)
	search := fs.String("search", "", "search text")
	category := fs.String("category", "", "category slug")
	page := fs.Int("page", 0, "page number")
	_ = fs.Parse(args)

	ctx, cancel := withTimeout()
	defer cancel()
	products, err := a.api.Products(ctx, api.ProductQuery{Search: *search, Category: *category, Page: *page})
	if err != nil {
		fail(err)
	}
	for _, p := range products {
		stock := ""
		if !p.InStock {
			stock = "  (out of stock)"
		}
		fmt.Printf("%-14s %-32s %10s%s\n", p.ID, p.Name, format.Money(p.Price), stock)
	}
}

func cmdProduct(a *app, args []string) {
	fs := flag.NewFlagSet("product", flag.ExitOnError)
	id := fs.String("id", "", "product id")
	_ = fs.Parse(args)
	need(fs, "id", *id)

	ctx, cancel := withTimeout()
	defer cancel()
	p, err := a.api.Product(ctx, *id)
	if err != nil {
		fail(err)
	}
	printJSON(p)
}

func cmdCategories(a *app, args []string) {
	_ = flag.NewFlagSet("categories", flag.ExitOnError).Parse(args)

	ctx, cancel := withTimeout()
	defer cancel()
	cats, err := a.api.Categories(ctx)
	if err != nil {
		fail(err)
	}
	for _, c := range cats {
		fmt.Printf("%-14s %s\n", c.Slug, c.Name)
	}
}

func cmdFeatured(a *app, args []string) {
	_ = flag.NewFlagSet("featured", flag.ExitOnError).Parse(args)

	ctx, cancel := withTimeout()
	defer cancel()
	products, err := a.api.FeaturedProducts(ctx)
	if err != nil {
		fail(err)
	}
	for _, p := range products {
		fmt.Printf("%-14s %-32s %10s\n", p.ID, p.Name, format.Money(p.Price))
	}
}

// ---- reviews ----

func cmdReviews(a *app, args []string) {
	fs := flag.NewFlagSet("reviews", flag.ExitOnError)
	id := fs.String("id", "", "product id")
	_ = fs.Parse(args)
	need(fs, "id", *id)

	ctx, cancel := withTimeout()
	defer cancel()
	reviews, err := a.api.Reviews(ctx, *id)
	if err != nil {
		fail(err)
	}
	for _, r := range reviews {
		fmt.Printf("%s  %d/5  %s  %s\n", format.Date(r.CreatedAt), r.Rating, r.UserName, r.Comment)
	}
}

// imageList collects repeated -image flags.
type imageList []string

func (l *imageList) String() string     { return fmt.Sprint(*l) }
func (l *imageList) Set(v string) error { *l = append(*l, v); return nil }

func cmdReview(a *app, args []string) {
	fs := flag.NewFlagSet("review", flag.ExitOnError)
	id := fs.String("id", "", "product id")
	rating := fs.Int("rating", 0, "rating 1..5")
	comment := fs.String("comment", "", "review text")
	var images imageList
	fs.Var(&images, "image", "image file (repeatable)")
	_ = fs.Parse(args)
	need(fs, "id", *id)
	if *rating < 1 || *rating > 5 {
		fmt.Fprintln(os.Stderr, "need -rating between 1 and 5")
		os.Exit(1)
	}

	var files []api.ReviewImage
	var closers []*os.File
	for _, path := range images {
		f, err := os.Open(path)
		if err != nil {
			fail(err)
		}
		closers = append(closers, f)
		files = append(files, api.ReviewImage{Filename: filepath.Base(path), R: f})
	}
	defer func() {
		for _, f := range closers {
			_ = f.Close()
		}
	}()

	ctx, cancel := withTimeout()
	defer cancel()
	r, err := a.api.AddReview(ctx, *id, *rating, *comment, files)
	if err != nil {
		fail(err)
	}
	printJSON(r)
}

// ---- cart ----

func cmdCartShow(a *app, args []string) {
	_ = flag.NewFlagSet("cart", flag.ExitOnError).Parse(args)

	lines := a.cart.Lines()
	if len(lines) == 0 {
		fmt.Println("cart is empty")
		return
	}
	for _, l := range lines {
		fmt.Printf("%-14s %-32s %3d × %10s = %10s\n",
			l.ID, l.Name, l.Quantity, format.Money(l.Price), format.Money(l.Total()))
	}
	fmt.Printf("%d item(s), subtotal %s\n", a.cart.TotalItems(), format.Money(a.cart.Subtotal()))
}

func cmdCartAdd(a *app, args []string) {
	fs := flag.NewFlagSet("cart-add", flag.ExitOnError)
	id := fs.String("id", "", "product id")
	qty := fs.Float64("qty", 1, "quantity")
	_ = fs.Parse(args)
	need(fs, "id", *id)

	ctx, cancel := withTimeout()
	defer cancel()
	p, err := a.api.Product(ctx, *id)
	if err != nil {
		fail(err)
	}
	line, err := a.cart.Add(cart.ProductRecord(p), *qty)
	if err != nil {
		fail(err)
	}
	fmt.Printf("%s × %d in cart\n", line.Name, line.Quantity)
}

func cmdCartSet(a *app, args []string) {
	fs := flag.NewFlagSet("cart-set", flag.ExitOnError)
	id := fs.String("id", "", "product id")
	qty := fs.Float64("qty", -1, "quantity (0 removes)")
	_ = fs.Parse(args)
	need(fs, "id", *id)
	if *qty < 0 {
		fmt.Fprintln(os.Stderr, "need -qty")
		os.Exit(1)
	}

	a.cart.UpdateQuantity(*id, *qty)
	cmdCartShow(a, nil)
}

func cmdCartRemove(a *app, args []string) {
	fs := flag.NewFlagSet("cart-rm", flag.ExitOnError)
	id := fs.String("id", "", "product id")
	_ = fs.Parse(args)
	need(fs, "id", *id)

	a.cart.Remove(*id)
	cmdCartShow(a, nil)
}

func cmdCartClear(a *app, args []string) {
	_ = flag.NewFlagSet("cart-clear", flag.ExitOnError).Parse(args)
	a.cart.Clear()
	fmt.Println("cart cleared")
}

// ---- wishlist ----

func cmdWishlist(a *app, args []string) {
	_ = flag.NewFlagSet("wishlist", flag.ExitOnError).Parse(args)

	ctx, cancel := withTimeout()
	defer cancel()
	items, err := a.wishlist.Items(ctx)
	if err != nil {
		fail(err)
	}
	if len(items) == 0 {
		fmt.Println("wishlist is empty")
		return
	}
	for _, it := range items {
		fmt.Printf("%-14s %-32s %10s  saved %s\n",
			it.ProductID, it.Name, format.Money(it.Price), format.Date(it.AddedAt))
	}
}

func cmdWishToggle(a *app, args []string) {
	fs := flag.NewFlagSet("wish", flag.ExitOnError)
	id := fs.String("id", "", "product id")
	_ = fs.Parse(args)
	need(fs, "id", *id)

	ctx, cancel := withTimeout()
	defer cancel()
	on, err := a.wishlist.Toggle(ctx, *id)
	if err != nil {
		fail(err)
	}
	if on {
		fmt.Println("added to wishlist")
	} else {
		fmt.Println("removed from wishlist")
	}
}

// ---- checkout & orders ----

func cmdCheckoutInfo(a *app, args []string) {
	d := a.checkout.Draft()

	fs := flag.NewFlagSet("checkout-info", flag.ExitOnError)
	name := fs.String("name", d.Name, "full name")
	email := fs.String("email", d.Email, "email")
	phone := fs.String("phone", d.Phone, "phone")
	line1 := fs.String("line1", d.Address.Line1, "address line 1")
	line2 := fs.String("line2", d.Address.Line2, "address line 2")
	city := fs.String("city", d.Address.City, "city")
	postal := fs.String("postal", d.Address.PostalCode, "postal code")
	country := fs.String("country", d.Address.Country, "country")
	_ = fs.Parse(args)

	d = model.CheckoutDraft{
		Name:  *name,
		Email: *email,
		Phone: *phone,
		Address: model.Address{
			Line1: *line1, Line2: *line2, City: *city,
			PostalCode: *postal, Country: *country,
		},
	}
	if err := a.checkout.SaveDraft(d); err != nil {
		fail(err)
	}
	printJSON(d)
}

func cmdCheckout(a *app, args []string) {
	_ = flag.NewFlagSet("checkout", flag.ExitOnError).Parse(args)

	ctx, cancel := withTimeout()
	defer cancel()
	res, pay, err := a.checkout.Submit(ctx)
	if err != nil {
		if res.OrderID != "" {
			fmt.Fprintf(os.Stderr, "order %s placed, but: %v\n", res.OrderID, err)
			os.Exit(1)
		}
		fail(err)
	}
	fmt.Printf("order %s placed, total %s\n", res.OrderID, format.Money(res.Total))
	fmt.Printf("pay at: %s\n", pay.CheckoutURL)
}

func printOrders(orders []model.Order) {
	for _, o := range orders {
		who := ""
		if o.UserEmail != "" {
			who = "  " + o.UserEmail
		}
		fmt.Printf("%-14s %s  %10s  %s%s\n",
			o.ID, format.Date(o.CreatedAt), format.Money(o.Total), format.Status(o.Status), who)
	}
}

func cmdOrders(a *app, args []string) {
	_ = flag.NewFlagSet("orders", flag.ExitOnError).Parse(args)

	ctx, cancel := withTimeout()
	defer cancel()
	orders, err := a.api.Orders(ctx)
	if err != nil {
		fail(err)
	}
	printOrders(orders)
}

func cmdOrder(a *app, args []string) {
	fs := flag.NewFlagSet("order", flag.ExitOnError)
	id := fs.String("id", "", "order id")
	_ = fs.Parse(args)
	need(fs, "id", *id)

	ctx, cancel := withTimeout()
	defer cancel()
	o, err := a.api.Order(ctx, *id)
	if err != nil {
		fail(err)
	}
	fmt.Printf("order %s  %s  %s\n", o.ID, format.DateTime(o.CreatedAt), format.Status(o.Status))
	for _, it := range o.Items {
		fmt.Printf("  %-32s %3d × %10s = %10s\n",
			it.Name, it.Quantity, format.Money(it.Price), format.Money(it.Price*float64(it.Quantity)))
	}
	fmt.Printf("total %s\n", format.Money(o.Total))
}

func cmdTerms(a *app, args []string) {
	_ = flag.NewFlagSet("terms", flag.ExitOnError).Parse(args)

	ctx, cancel := withTimeout()
	defer cancel()
	content, err := a.api.Terms(ctx)
	if err != nil {
		fail(err)
	}
	fmt.Println(content)
}
