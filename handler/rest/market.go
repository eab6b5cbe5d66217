package rest

import (
	"context"
	"net/http"

	"lendledger/core"
	"lendledger/handler/param"
	"lendledger/handler/render"
	"lendledger/handler/views"

	"github.com/go-chi/chi"
)

func assetsHandler(assets core.AssetService, ledger core.Ledger, interest core.InterestService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		all, err := assets.All(ctx)
		if err != nil {
			render.Error(w, err)
			return
		}

		assetViews := make([]*views.Asset, 0, len(all))
		for _, asset := range all {
			v, err := convert2AssetView(ctx, asset, ledger, interest)
			if err != nil {
				render.Error(w, err)
				return
			}

			assetViews = append(assetViews, v)
		}

		render.JSON(w, assetViews)
	}
}

func assetHandler(assets core.AssetService, ledger core.Ledger, interest core.InterestService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		asset, err := assets.Find(ctx, chi.URLParam(r, "id"))
		if err != nil {
			render.Error(w, err)
			return
		}

		v, err := convert2AssetView(ctx, asset, ledger, interest)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, v)
	}
}

func convert2AssetView(ctx context.Context, asset *core.Asset, ledger core.Ledger, interest core.InterestService) (*views.Asset, error) {
	cash, err := ledger.GetBalanceSheetBalance(ctx, asset.ID, core.AccountCash)
	if err != nil {
		return nil, err
	}

	borrows, err := ledger.GetBalanceSheetBalance(ctx, asset.ID, core.AccountBorrow)
	if err != nil {
		return nil, err
	}

	borrowRate, err := interest.ScaledBorrowRatePerGroup(ctx, asset.ID)
	if err != nil {
		return nil, err
	}

	supplyRate, err := interest.ScaledSupplyRatePerGroup(ctx, asset.ID)
	if err != nil {
		return nil, err
	}

	return &views.Asset{
		Asset:      asset,
		Cash:       cash,
		Borrows:    borrows,
		BorrowRate: borrowRate,
		SupplyRate: supplyRate,
	}, nil
}

func snapshotHandler(assets core.AssetService, interest core.InterestService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		all, err := assets.All(ctx)
		if err != nil {
			render.Error(w, err)
			return
		}

		ids := make([]string, 0, len(all))
		for _, asset := range all {
			if err := interest.SnapshotMarket(ctx, asset.ID); err != nil {
				render.Error(w, err)
				return
			}
			ids = append(ids, asset.ID)
		}

		block, err := interest.CurrentBlock(ctx)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{
			"assets": ids,
			"block":  block,
			"group":  interest.GroupOf(block),
		})
	}
}

func entriesHandler(entries core.EntryStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			TraceID string `json:"trace_id" valid:"required"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.Error(w, err)
			return
		}

		list, err := entries.FindByTrace(r.Context(), params.TraceID)
		if err != nil {
			render.Error(w, err)
			return
		}

		if list == nil {
			list = []*core.Entry{}
		}

		render.JSON(w, list)
	}
}

func usersHandler(users core.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if users == nil {
			render.JSON(w, []*core.User{})
			return
		}

		var params struct {
			From  int64 `json:"from"`
			Limit int   `json:"limit" valid:"range(0|500)"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.Error(w, err)
			return
		}

		if params.Limit == 0 {
			params.Limit = 100
		}

		list, err := users.List(r.Context(), params.From, params.Limit)
		if err != nil {
			render.Error(w, err)
			return
		}

		if list == nil {
			list = []*core.User{}
		}

		render.JSON(w, list)
	}
}
