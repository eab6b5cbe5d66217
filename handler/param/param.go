package param

import (
	"encoding/json"
	"net/http"

	"lendledger/core"

	"github.com/asaskevich/govalidator"
	"github.com/gorilla/schema"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
	decoder.SetAliasTag("json")
}

// Binding decode query parameters on GET and the json body otherwise, then validate v
func Binding(r *http.Request, v interface{}) error {
	var err error
	if r.Method == http.MethodGet {
		err = decoder.Decode(v, r.URL.Query())
	} else if r.ContentLength != 0 {
		err = json.NewDecoder(r.Body).Decode(v)
	}

	if err != nil {
		return core.WrapError(core.ErrInvalidArgument, err, nil)
	}

	if _, err := govalidator.ValidateStruct(v); err != nil {
		return core.WrapError(core.ErrInvalidArgument, err, nil)
	}

	return nil
}
