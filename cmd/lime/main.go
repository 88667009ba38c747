// Command lime is a CLI client for the Lime Store API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/limestore/limectl/internal/api"
	"github.com/limestore/limectl/internal/cart"
	"github.com/limestore/limectl/internal/checkout"
	"github.com/limestore/limectl/internal/config"
	"github.com/limestore/limectl/internal/errs"
	"github.com/limestore/limectl/internal/session"
	"github.com/limestore/limectl/internal/storage"
	"github.com/limestore/limectl/internal/wishlist"
)

// app bundles the service objects constructed once at startup.
type app struct {
	log      *zap.Logger
	store    storage.Store
	session  *session.Service
	api      *api.Client
	cart     *cart.Service
	wishlist *wishlist.Service
	checkout *checkout.Service
}

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// ---- output helpers ----

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func fail(err error) {
	switch {
	case errors.Is(err, errs.ErrUnauthorized), errors.Is(err, errs.ErrSessionExpired):
		fmt.Fprintln(os.Stderr, "not signed in or session expired; run `lime login`")
	case errors.Is(err, errs.ErrForbidden):
		fmt.Fprintln(os.Stderr, "not allowed; check your role and that your email is verified")
	case errors.Is(err, errs.ErrPayloadTooLarge):
		fmt.Fprintln(os.Stderr, "upload rejected; please reduce the image size")
	default:
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(1)
}

func need(fs *flag.FlagSet, pairs ...string) {
	// pairs: flagName, value, flagName, value, ...
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			fmt.Fprintf(os.Stderr, "need -%s\n", pairs[i])
			fs.Usage()
			os.Exit(1)
		}
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `lime CLI
Usage:
  lime [-base URL] [-v] <cmd> [args]

Account:
  register      -name N -email E -password P
  verify        -email E -code C
  resend-code   -email E
  login         -email E -password P            (saves session)
  logout
  whoami
  reset-request -email E
  reset         -email E -code C -password P
  account
  account-edit  [-name N] [-line1 ..] [-city ..] [-postal ..] [-country ..]
  avatar        -file PATH

Shop:
  products      [-search S] [-category C] [-page N]
  product       -id ID
  categories
  featured
  reviews       -id PRODUCT
  review        -id PRODUCT -rating 1..5 [-comment TEXT] [-image PATH]...
  cart
  cart-add      -id PRODUCT [-qty N]
  cart-set      -id PRODUCT -qty N              (0 removes the line)
  cart-rm       -id PRODUCT
  cart-clear
  wishlist
  wish          -id PRODUCT                      (toggle)
  checkout-info [-name ..] [-email ..] [-phone ..] [-line1 ..] [-line2 ..] [-city ..] [-postal ..] [-country ..]
  checkout
  orders
  order         -id ID
  terms

Admin:
  admin-users
  admin-role    -id USER -role ROLE
  admin-logs
  admin-orders
  featured-set  -ids ID[,ID...]
  terms-edit    -file PATH ('-'=stdin)

  version
`)
	os.Exit(2)
}

var (
	version   = "dev"
	buildDate = "unknown"
)

// main wires the service objects and dispatches subcommands.
func main() {
	// global flags
	base := flag.String("base", "", "API base URL (overrides LIME_API_URL)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)
	args := flag.Args()[1:]

	logger := zap.NewNop()
	if *verbose {
		logger, _ = zap.NewDevelopment()
	}
	defer func() { _ = logger.Sync() }()

	config.Load(logger)

	store := storage.NewFileStore("")
	sess := session.NewService(store, logger)
	defer sess.Close()
	sess.Subscribe(func(r session.Reason) {
		if r != session.ReasonLogout {
			fmt.Fprintln(os.Stderr, "session expired, please log in again")
		}
	})

	client, err := api.New(config.BaseURL(*base), sess, logger)
	if err != nil {
		fail(err)
	}
	cartSvc := cart.NewService(store, logger)

	a := &app{
		log:      logger,
		store:    store,
		session:  sess,
		api:      client,
		cart:     cartSvc,
		wishlist: wishlist.NewService(client, logger),
		checkout: checkout.NewService(client, cartSvc, store, logger),
	}

	switch cmd {
	case "version":
		fmt.Printf("lime %s (%s)\n", version, buildDate)

	// account
	case "register":
		cmdRegister(a, args)
	case "verify":
		cmdVerify(a, args)
	case "resend-code":
		cmdResendCode(a, args)
	case "login":
		cmdLogin(a, args)
	case "logout":
		cmdLogout(a, args)
	case "whoami":
		cmdWhoami(a, args)
	case "reset-request":
		cmdResetRequest(a, args)
	case "reset":
		cmdReset(a, args)
	case "account":
		cmdAccount(a, args)
	case "account-edit":
		cmdAccountEdit(a, args)
	case "avatar":
		cmdAvatar(a, args)

	// shop
	case "products":
		cmdProducts(a, args)
	case "product":
		cmdProduct(a, args)
	case "categories":
		cmdCategories(a, args)
	case "featured":
		cmdFeatured(a, args)
	case "reviews":
		cmdReviews(a, args)
	case "review":
		cmdReview(a, args)
	case "cart":
		cmdCartShow(a, args)
	case "cart-add":
		cmdCartAdd(a, args)
	case "cart-set":
		cmdCartSet(a, args)
	case "cart-rm":
		cmdCartRemove(a, args)
	case "cart-clear":
		cmdCartClear(a, args)
	case "wishlist":
		cmdWishlist(a, args)
	case "wish":
		cmdWishToggle(a, args)
	case "checkout-info":
		cmdCheckoutInfo(a, args)
	case "checkout":
		cmdCheckout(a, args)
	case "orders":
		cmdOrders(a, args)
	case "order":
		cmdOrder(a, args)
	case "terms":
		cmdTerms(a, args)

	// admin
	case "admin-users":
		cmdAdminUsers(a, args)
	case "admin-role":
		cmdAdminRole(a, args)
	case "admin-logs":
		cmdAdminLogs(a, args)
	case "admin-orders":
		cmdAdminOrders(a, args)
	case "featured-set":
		cmdFeaturedSet(a, args)
	case "terms-edit":
		cmdTermsEdit(a, args)

	default:
		usage()
	}
}
