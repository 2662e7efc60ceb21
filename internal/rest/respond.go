package rest

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// decodeAndValidate decodes the request body into dst and runs struct
// validation. It writes the error response itself and reports whether the
// handler may proceed.
func (a *App) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return false
	}
	if err := a.validate.Struct(dst); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			f := errs[0]
			respondWithError(w, http.StatusBadRequest,
				fmt.Sprintf("field %s failed validation on %s", f.Field(), f.Tag()))
			return false
		}
		respondWithError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// isMember reports whether name is in the members list.
func isMember(name string, members []string) bool {
	for _, m := range members {
		if m == name {
			return true
		}
	}
	return false
}
