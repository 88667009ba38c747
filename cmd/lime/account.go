package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/limestore/limectl/internal/model"
)

// ---- auth commands ----

func cmdRegister(a *app, args []string) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)
	need(fs, "name", *name, "email", *email, "password", *password)

	ctx, cancel := withTimeout()
	defer cancel()
	if err := a.api.Register(ctx, *name, *email, *password); err != nil {
		fail(err)
	}
	fmt.Println("registered; check your inbox for the verification code, then run `lime verify`")
}

func cmdVerify(a *app, args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	email := fs.String("email", "", "email")
	code := fs.String("code", "", "verification code")
	_ = fs.Parse(args)
	need(fs, "email", *email, "code", *code)

	ctx, cancel := withTimeout()
	defer cancel()
	if err := a.api.VerifyEmail(ctx, *email, *code); err != nil {
		fail(err)
	}
	fmt.Println("email verified")
}

func cmdResendCode(a *app, args []string) {
	fs := flag.NewFlagSet("resend-code", flag.ExitOnError)
	email := fs.String("email", "", "email")
	_ = fs.Parse(args)
	need(fs, "email", *email)

	ctx, cancel := withTimeout()
	defer cancel()
	if err := a.api.ResendCode(ctx, *email); err != nil {
		fail(err)
	}
	fmt.Println("verification code sent")
}

func cmdLogin(a *app, args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)
	need(fs, "email", *email, "password", *password)

	ctx, cancel := withTimeout()
	defer cancel()
	res, err := a.api.Login(ctx, *email, *password)
	if err != nil {
		fail(err)
	}
	if err := a.session.Login(res.Token, res.User); err != nil {
		fail(err)
	}
	fmt.Printf("signed in as %s\n", res.User.Email)
}

func cmdLogout(a *app, args []string) {
	_ = flag.NewFlagSet("logout", flag.ExitOnError).Parse(args)
	a.session.Logout()
	fmt.Println("signed out")
}

func cmdWhoami(a *app, args []string) {
	_ = flag.NewFlagSet("whoami", flag.ExitOnError).Parse(args)
	p, ok := a.session.Profile()
	if !ok {
		fmt.Println("anonymous")
		return
	}
	printJSON(p)
	if exp := a.session.ExpiresAt(); !exp.IsZero() {
		fmt.Fprintf(os.Stderr, "session valid until %s\n", exp.Local().Format("15:04:05"))
	}
}

func cmdResetRequest(a *app, args []string) {
	fs := flag.NewFlagSet("reset-request", flag.ExitOnError)
	email := fs.String("email", "", "email")
	_ = fs.Parse(args)
	need(fs, "email", *email)

	ctx, cancel := withTimeout()
	defer cancel()
	if err := a.api.RequestReset(ctx, *email); err != nil {
		fail(err)
	}
	fmt.Println("reset code sent; run `lime reset` with the emailed code")
}

func cmdReset(a *app, args []string) {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	email := fs.String("email", "", "email")
	code := fs.String("code", "", "reset code")
	password := fs.String("password", "", "new password")
	_ = fs.Parse(args)
	need(fs, "email", *email, "code", *code, "password", *password)

	ctx, cancel := withTimeout()
	defer cancel()
	if err := a.api.ResetPassword(ctx, *email, *code, *password); err != nil {
		fail(err)
	}
	fmt.Println("password updated; run `lime login`")
}

// ---- account commands ----

func cmdAccount(a *app, args []string) {
	_ = flag.NewFlagSet("account", flag.ExitOnError).Parse(args)

	ctx, cancel := withTimeout()
	defer cancel()
	p, err := a.api.Account(ctx)
	if err != nil {
		fail(err)
	}
	a.session.UpdateProfile(p)
	printJSON(p)
}

func cmdAccountEdit(a *app, args []string) {
	cur, _ := a.session.Profile()
	var addr model.Address
	if cur.Address != nil {
		addr = *cur.Address
	}

	fs := flag.NewFlagSet("account-edit", flag.ExitOnError)
	name := fs.String("name", cur.Name, "display name")
	line1 := fs.String("line1", addr.Line1, "address line 1")
	line2 := fs.String("line2", addr.Line2, "address line 2")
	city := fs.String("city", addr.City, "city")
	postal := fs.String("postal", addr.PostalCode, "postal code")
	country := fs.String("country", addr.Country, "country")
	_ = fs.Parse(args)

	cur.Name = *name
	cur.Address = &model.Address{
		Line1: *line1, Line2: *line2, City: *city,
		PostalCode: *postal, Country: *country,
	}

	ctx, cancel := withTimeout()
	defer cancel()
	p, err := a.api.UpdateAccount(ctx, cur)
	if err != nil {
		fail(err)
	}
	a.session.UpdateProfile(p)
	printJSON(p)
}

func cmdAvatar(a *app, args []string) {
	fs := flag.NewFlagSet("avatar", flag.ExitOnError)
	file := fs.String("file", "", "image file")
	_ = fs.Parse(args)
	need(fs, "file", *file)

	f, err := os.Open(*file)
	if err != nil {
		fail(err)
	}
	defer f.Close()

	ctx, cancel := withTimeout()
	defer cancel()
	p, err := a.api.UploadAvatar(ctx, filepath.Base(*file), f)
	if err != nil {
		fail(err)
	}
	a.session.UpdateProfile(p)
	fmt.Printf("avatar updated: %s\n", p.AvatarURL)
}
