package auth

import (
	"net/http"

	"lendledger/core"
	"lendledger/handler/param"
	"lendledger/handler/render"

	"github.com/fox-one/mixin-sdk-go"
)

// HandleOauth exchange a mixin oauth code for an access token
func HandleOauth(wallet *core.MainWallet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Code string `json:"code,omitempty" valid:"minstringlength(6),required"`
		}

		if err := param.Binding(r, &body); err != nil {
			render.Error(w, err)
			return
		}

		ctx := r.Context()

		token, scope, err := mixin.AuthorizeToken(ctx, wallet.ClientID, wallet.ClientSecret, body.Code, "")
		if err != nil {
			render.Error(w, core.WrapError(core.ErrUnauthorized, err, nil))
			return
		}

		render.JSON(w, render.H{"token": token, "scope": scope})
	}
}
