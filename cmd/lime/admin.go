package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/limestore/limectl/internal/format"
)

// readAll reads a file, or stdin when path is "-".
func readAll(p string) ([]byte, error) {
	if p == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(p)
}

func cmdAdminUsers(a *app, args []string) {
	_ = flag.NewFlagSet("admin-users", flag.ExitOnError).Parse(args)

	ctx, cancel := withTimeout()
	defer cancel()
	users, err := a.api.AdminUsers(ctx)
	if err != nil {
		fail(err)
	}
	for _, u := range users {
		verified := " "
		if u.Verified {
			verified = "✓"
		}
		fmt.Printf("%-14s %-28s %-10s %s\n", u.ID, u.Email, u.Role, verified)
	}
}

func cmdAdminRole(a *app, args []string) {
	fs := flag.NewFlagSet("admin-role", flag.ExitOnError)
	id := fs.String("id", "", "user id")
	role := fs.String("role", "", "new role (customer|admin)")
	_ = fs.Parse(args)
	need(fs, "id", *id, "role", *role)

	ctx, cancel := withTimeout()
	defer cancel()
	if err := a.api.SetUserRole(ctx, *id, *role); err != nil {
		fail(err)
	}
	fmt.Printf("user %s is now %s\n", *id, *role)
}

func cmdAdminLogs(a *app, args []string) {
	_ = flag.NewFlagSet("admin-logs", flag.ExitOnError).Parse(args)

	ctx, cancel := withTimeout()
	defer cancel()
	entries, err := a.api.AuditLogs(ctx)
	if err != nil {
		fail(err)
	}
	for _, e := range entries {
		target := ""
		if e.Target != "" {
			target = " → " + e.Target
		}
		fmt.Printf("%s  %-24s %s%s\n", format.DateTime(e.CreatedAt), e.Actor, e.Action, target)
	}
}

func cmdAdminOrders(a *app, args []string) {
	_ = flag.NewFlagSet("admin-orders", flag.ExitOnError).Parse(args)

	ctx, cancel := withTimeout()
	defer cancel()
	orders, err := a.api.AllOrders(ctx)
	if err != nil {
		fail(err)
	}
	printOrders(orders)
}

func cmdFeaturedSet(a *app, args []string) {
	fs := flag.NewFlagSet("featured-set", flag.ExitOnError)
	ids := fs.String("ids", "", "comma-separated product ids")
	_ = fs.Parse(args)
	need(fs, "ids", *ids)

	var productIDs []string
	for _, id := range strings.Split(*ids, ",") {
		if id = strings.TrimSpace(id); id != "" {
			productIDs = append(productIDs, id)
		}
	}
	if len(productIDs) == 0 {
		fmt.Fprintln(os.Stderr, "need -ids with at least one product id")
		os.Exit(1)
	}

	ctx, cancel := withTimeout()
	defer cancel()
	if err := a.api.SetFeaturedProducts(ctx, productIDs); err != nil {
		fail(err)
	}
	fmt.Printf("showcase updated (%d products)\n", len(productIDs))
}

func cmdTermsEdit(a *app, args []string) {
	fs := flag.NewFlagSet("terms-edit", flag.ExitOnError)
	file := fs.String("file", "", "terms text file ('-'=stdin)")
	_ = fs.Parse(args)
	need(fs, "file", *file)

	content, err := readAll(*file)
	if err != nil {
		fail(err)
	}

	ctx, cancel := withTimeout()
	defer cancel()
	if err := a.api.UpdateTerms(ctx, string(content)); err != nil {
		fail(err)
	}
	fmt.Println("terms updated")
}
