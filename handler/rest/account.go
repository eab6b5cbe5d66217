package rest

import (
	"context"
	"net/http"

	"lendledger/core"
	"lendledger/handler/param"
	"lendledger/handler/render"
	"lendledger/handler/request"
	"lendledger/handler/views"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

type operationParams struct {
	AssetID string          `json:"asset_id" valid:"required"`
	Amount  decimal.Decimal `json:"amount"`
	TraceID string          `json:"trace_id" valid:"uuid"`
}

// bindOperation bind v and return the session customer and a ctx carrying the trace id
func bindOperation(r *http.Request, v interface{}, traceID func() string) (context.Context, string, error) {
	if err := param.Binding(r, v); err != nil {
		return nil, "", err
	}

	user, _ := request.UserFrom(r.Context())
	ctx := r.Context()
	if id := traceID(); id != "" {
		ctx = core.WithTraceID(ctx, id)
	}

	return ctx, user.Customer(), nil
}

func meHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := request.UserFrom(r.Context())
		render.JSON(w, user)
	}
}

func balancesHandler(assets core.AssetService, products map[string]core.SavingsService, borrower core.BorrowerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user, _ := request.UserFrom(ctx)

		all, err := assets.All(ctx)
		if err != nil {
			render.Error(w, err)
			return
		}

		balances := make([]*views.Balance, 0)
		for _, asset := range all {
			for name, product := range products {
				balance, err := product.Balance(ctx, user.Customer(), asset.ID)
				if err != nil {
					render.Error(w, err)
					return
				}

				if balance.IsPositive() {
					balances = append(balances, &views.Balance{
						Product: name,
						Kind:    product.Kind().String(),
						AssetID: asset.ID,
						Balance: balance,
					})
				}
			}

			if borrower == nil {
				continue
			}

			borrow, err := borrower.BorrowBalance(ctx, user.Customer(), asset.ID)
			if err != nil {
				render.Error(w, err)
				return
			}

			if borrow.IsPositive() {
				balances = append(balances, &views.Balance{
					Product: "borrower",
					Kind:    core.AccountBorrow.String(),
					AssetID: asset.ID,
					Balance: borrow,
				})
			}
		}

		render.JSON(w, balances)
	}
}

func product(w http.ResponseWriter, r *http.Request, products map[string]core.SavingsService) (core.SavingsService, bool) {
	p, ok := products[chi.URLParam(r, "product")]
	if !ok {
		render.NotFound(w)
	}

	return p, ok
}

func depositHandler(products map[string]core.SavingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := product(w, r, products)
		if !ok {
			return
		}

		var params operationParams
		ctx, customer, err := bindOperation(r, &params, func() string { return params.TraceID })
		if err != nil {
			render.Error(w, err)
			return
		}

		if err := p.Deposit(ctx, customer, params.AssetID, params.Amount); err != nil {
			render.Error(w, err)
			return
		}

		renderBalance(ctx, w, p, customer, params.AssetID)
	}
}

func withdrawHandler(products map[string]core.SavingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := product(w, r, products)
		if !ok {
			return
		}

		var params operationParams
		ctx, customer, err := bindOperation(r, &params, func() string { return params.TraceID })
		if err != nil {
			render.Error(w, err)
			return
		}

		if err := p.Withdraw(ctx, customer, params.AssetID, params.Amount); err != nil {
			render.Error(w, err)
			return
		}

		renderBalance(ctx, w, p, customer, params.AssetID)
	}
}

func renderBalance(ctx context.Context, w http.ResponseWriter, p core.SavingsService, customer, asset string) {
	balance, err := p.Balance(ctx, customer, asset)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, &views.Balance{
		Product: chi.RouteContext(ctx).URLParam("product"),
		Kind:    p.Kind().String(),
		AssetID: asset,
		Balance: balance,
	})
}

func liquidityHandler(borrower core.BorrowerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user, _ := request.UserFrom(ctx)

		liquidity, healthy, err := borrower.AccountHealth(ctx, user.Customer())
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.Liquidity{
			AccountLiquidity: liquidity,
			Healthy:          healthy,
		})
	}
}

func payRequestsHandler(payer Payer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if payer == nil {
			render.Error(w, core.NewError(core.ErrTokenNotConfigured, nil))
			return
		}

		var params operationParams
		if err := param.Binding(r, &params); err != nil {
			render.Error(w, err)
			return
		}

		url, err := payer.PaySchemaURL(r.Context(), params.AssetID, params.Amount, params.TraceID)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"url": url})
	}
}
