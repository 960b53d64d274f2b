package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/baharkarakas/film-catalog/internal/api/validate"
	"github.com/baharkarakas/film-catalog/internal/apperr"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads one JSON object into dst and runs its validate tags.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("request body is required")
		}
		return apperr.Validation("invalid JSON body")
	}
	return validate.Struct(dst)
}

// pageParams reads skip/limit query parameters. Bounds are applied by the services.
func pageParams(r *http.Request) (skip, limit int, err error) {
	q := r.URL.Query()
	if skip, err = intParam(q.Get("skip"), "skip"); err != nil {
		return 0, 0, err
	}
	if limit, err = intParam(q.Get("limit"), "limit"); err != nil {
		return 0, 0, err
	}
	if skip < 0 || limit < 0 {
		return 0, 0, validate.Errs{{Field: "skip/limit", Msg: "must be >= 0"}}
	}
	return skip, limit, nil
}

func intParam(v, name string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, validate.Errs{{Field: name, Msg: "must be an integer"}}
	}
	return n, nil
}
