package render

import (
	"encoding/json"
	"net/http"

	"lendledger/core"

	"github.com/sirupsen/logrus"
)

// H json object
type H map[string]interface{}

// JSON render with json
func JSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Errorln("render json")
	}
}

// Text render with text
func Text(w http.ResponseWriter, t string) {
	w.Header().Set("Content-Type", "application/text")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(t)); err != nil {
		logrus.WithError(err).Errorln("render text")
	}
}

// StatusOf http status of err
func StatusOf(err error) int {
	code := core.CodeOf(err)
	switch code {
	case core.ErrUnauthorized:
		return http.StatusUnauthorized
	case core.ErrOperationForbidden:
		return http.StatusForbidden
	case core.ErrAssetNotFound, core.ErrBorrowNotFound:
		return http.StatusNotFound
	}

	switch code.Category() {
	case core.CategoryValidation:
		return http.StatusBadRequest
	case core.CategoryInvariant:
		return http.StatusConflict
	case core.CategoryExternal:
		return http.StatusBadGateway
	case core.CategoryConfiguration:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error write err with the status derived from its code
func Error(w http.ResponseWriter, err error) {
	status := StatusOf(err)
	resp := errorResponse{
		Code: int(core.CodeOf(err)),
		Msg:  http.StatusText(status),
	}

	if status < http.StatusInternalServerError || ResponseErrorMessageAsHint {
		resp.Hint = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logrus.WithError(err).Errorln("render error")
	}
}

// BadRequest bad request error
func BadRequest(w http.ResponseWriter, err error) {
	Error(w, core.WrapError(core.ErrInvalidArgument, err, nil))
}

// NotFound not found error
func NotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_ = json.NewEncoder(w).Encode(errorResponse{Code: http.StatusNotFound, Msg: http.StatusText(http.StatusNotFound)})
}
