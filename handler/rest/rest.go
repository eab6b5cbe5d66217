package rest

import (
	"context"
	"net/http"

	"lendledger/core"
	"lendledger/handler/auth"
	"lendledger/handler/render"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

// Payer builds a payment link for deposits through the wallet
type Payer interface {
	PaySchemaURL(ctx context.Context, asset string, amount decimal.Decimal, traceID string) (string, error)
}

// Services everything the rest api serves
type Services struct {
	Assets   core.AssetService
	Ledger   core.Ledger
	Interest core.InterestService
	// Products deposit/withdraw products by route name
	Products map[string]core.SavingsService
	Borrower core.BorrowerService
	Access   core.AccessControl
	Entries  core.EntryStore
	Users    core.UserStore
	Payer    Payer
	Wallet   *core.MainWallet
}

// Handle handle rest api request
func Handle(s Services) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFound(w)
	})

	if s.Wallet != nil {
		router.Post("/oauth", auth.HandleOauth(s.Wallet))
	}

	router.Get("/assets", assetsHandler(s.Assets, s.Ledger, s.Interest))
	router.Get("/assets/{id}", assetHandler(s.Assets, s.Ledger, s.Interest))

	router.Group(func(r chi.Router) {
		r.Use(auth.LoginRequired)

		r.Get("/me", meHandler())
		r.Get("/balances", balancesHandler(s.Assets, s.Products, s.Borrower))
		r.Post("/products/{product}/deposit", depositHandler(s.Products))
		r.Post("/products/{product}/withdraw", withdrawHandler(s.Products))
		r.Post("/borrows", borrowHandler(s.Borrower))
		r.Post("/borrows/repay", repayHandler(s.Borrower))
		r.Post("/borrows/convert", convertHandler(s.Borrower))
		r.Get("/liquidity", liquidityHandler(s.Borrower))
		r.Post("/pay-requests", payRequestsHandler(s.Payer))
	})

	router.Group(func(r chi.Router) {
		r.Use(auth.OwnerRequired(s.Access))

		r.Post("/admin/snapshots", snapshotHandler(s.Assets, s.Interest))
		r.Get("/admin/entries", entriesHandler(s.Entries))
		r.Get("/admin/users", usersHandler(s.Users))
	})

	return router
}
