package auth

import (
	"net/http"
	"strings"

	"lendledger/core"
	"lendledger/handler/render"
	"lendledger/handler/request"

	"github.com/fox-one/pkg/logger"
)

// HandleAuthentication attach the session user to the request when the bearer token is valid
func HandleAuthentication(session core.Session) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := logger.FromContext(ctx)

			accessToken := getBearerToken(r)
			if accessToken == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := session.Login(ctx, accessToken)
			if err != nil {
				log.WithError(err).Debugln("parse access token error:", err)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(request.WithUser(ctx, user)))
		}

		return http.HandlerFunc(fn)
	}
}

// LoginRequired reject requests without a session user
func LoginRequired(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		if _, ok := request.UserFrom(r.Context()); !ok {
			render.Error(w, core.ErrUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}

// OwnerRequired reject requests from users the access control does not own
func OwnerRequired(access core.AccessControl) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			user, ok := request.UserFrom(r.Context())
			if !ok {
				render.Error(w, core.ErrUnauthorized)
				return
			}

			if !access.CheckOwner(r.Context(), user.Customer()) {
				render.Error(w, core.NewError(core.ErrOperationForbidden, core.Params{"user": user.Customer()}))
				return
			}

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}

func getBearerToken(r *http.Request) string {
	s := r.Header.Get("Authorization")
	return strings.TrimPrefix(s, "Bearer ")
}
