package render

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"lendledger/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	for err, status := range map[error]int{
		core.NewError(core.ErrInsufficientBalance, nil):   http.StatusBadRequest,
		core.NewError(core.ErrInvalidCollateralRatio, nil): http.StatusBadRequest,
		core.NewError(core.ErrConcurrentUpdate, nil):      http.StatusConflict,
		core.NewError(core.ErrTransferFailed, nil):        http.StatusBadGateway,
		core.NewError(core.ErrOracleNotAllowed, nil):      http.StatusServiceUnavailable,
		core.NewError(core.ErrAssetNotFound, nil):         http.StatusNotFound,
		core.ErrUnauthorized:                              http.StatusUnauthorized,
		core.ErrOperationForbidden:                        http.StatusForbidden,
		errors.New("boom"):                                http.StatusInternalServerError,
	} {
		assert.Equal(t, status, StatusOf(err), err.Error())
	}
}

func TestWrapResponse(t *testing.T) {
	h := WrapResponse(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		JSON(w, H{"ok": true})
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			OK bool `json:"ok"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Data.OK)
}

func TestWrapResponseKeepsErrors(t *testing.T) {
	h := WrapResponse(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Error(w, core.NewError(core.ErrInsufficientBalance, core.Params{"asset": "btc"}))
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int(core.ErrInsufficientBalance), body.Code)
	assert.Contains(t, body.Hint, "asset=btc")
}
