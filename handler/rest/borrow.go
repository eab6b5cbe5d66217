package rest

import (
	"net/http"

	"lendledger/core"
	"lendledger/handler/render"
	"lendledger/handler/views"

	"github.com/shopspring/decimal"
)

func borrowHandler(borrower core.BorrowerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params operationParams
		ctx, customer, err := bindOperation(r, &params, func() string { return params.TraceID })
		if err != nil {
			render.Error(w, err)
			return
		}

		if err := borrower.Borrow(ctx, customer, params.AssetID, params.Amount); err != nil {
			render.Error(w, err)
			return
		}

		balance, err := borrower.BorrowBalance(ctx, customer, params.AssetID)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, &views.Balance{
			Product: "borrower",
			Kind:    core.AccountBorrow.String(),
			AssetID: params.AssetID,
			Balance: balance,
		})
	}
}

func repayHandler(borrower core.BorrowerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params operationParams
		ctx, customer, err := bindOperation(r, &params, func() string { return params.TraceID })
		if err != nil {
			render.Error(w, err)
			return
		}

		repaid, err := borrower.RepayBorrow(ctx, customer, params.AssetID, params.Amount)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, &views.Repaid{AssetID: params.AssetID, Repaid: repaid})
	}
}

func convertHandler(borrower core.BorrowerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			PaymentAssetID string          `json:"payment_asset_id" valid:"required"`
			Amount         decimal.Decimal `json:"amount"`
			BorrowAssetID  string          `json:"borrow_asset_id" valid:"required"`
			TraceID        string          `json:"trace_id" valid:"uuid"`
		}

		ctx, customer, err := bindOperation(r, &params, func() string { return params.TraceID })
		if err != nil {
			render.Error(w, err)
			return
		}

		repaid, err := borrower.ConvertCollateral(ctx, customer, params.PaymentAssetID, params.Amount, params.BorrowAssetID)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, &views.Repaid{AssetID: params.BorrowAssetID, Repaid: repaid})
	}
}
