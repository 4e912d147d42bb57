// Command shopctl drives the storefront engine against a live backend:
// it signs in (or up), bootstraps the catalog and order history, and
// prints what it finds. Useful for poking at a backend without the
// mobile UI attached.
package main

import (
	"context"
	"flag"

	sdkapp "github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/app"
)

func main() {
	var (
		email    string
		password string
		signUp   bool
	)
	flag.StringVar(&email, "email", "", "account email")
	flag.StringVar(&password, "password", "", "account password")
	flag.BoolVar(&signUp, "sign-up", false, "create the account instead of signing in")
	flag.Parse()

	sdkapp.Run(func(ctx context.Context, lg *zap.Logger, _ *sdkapp.Telemetry) error {
		cfg, err := app.LoadConfig()
		if err != nil {
			return err
		}

		eng, err := app.New(lg, cfg)
		if err != nil {
			return err
		}
		defer eng.Close()

		if signUp {
			err = eng.SignUp(ctx, email, password)
		} else {
			err = eng.Login(ctx, email, password)
		}
		if err != nil {
			return err
		}

		if err := eng.Bootstrap(ctx); err != nil {
			return err
		}

		st := eng.Store()
		for _, p := range st.Products() {
			lg.Info("Product",
				zap.String("id", p.ID),
				zap.String("title", p.Title),
				zap.String("price", p.Price.String()),
			)
		}
		for _, o := range st.Orders() {
			lg.Info("Order",
				zap.String("id", o.ID),
				zap.String("total", o.Total.String()),
				zap.Time("placed_at", o.PlacedAt),
				zap.Int("items", len(o.Items)),
			)
		}

		eng.Logout()
		return nil
	})
}
