package httputil

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/loghound-systems/loghound-stack/common/paging"
)

// ParseIntParam parses an integer query parameter with a default value.
// Returns defaultVal if the parameter is empty or invalid.
//
// Example:
//
//	limit := httputil.ParseIntParam(r.URL.Query().Get("limit"), 1000)
func ParseIntParam(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return defaultVal
}

// ParseBoolParam parses a boolean query parameter with a default value.
func ParseBoolParam(s string, defaultVal bool) bool {
	if s == "" {
		return defaultVal
	}
	if v, err := strconv.ParseBool(s); err == nil {
		return v
	}
	return defaultVal
}

// ParsePaging extracts the batch pagination window from the query
// string, applying the default limit when none is given. Non-numeric
// values, a negative offset, and a non-positive limit are request
// errors the handler should surface as 400.
func ParsePaging(r *http.Request, defaultLimit int) (paging.Params, error) {
	p := paging.Params{Limit: defaultLimit}
	q := r.URL.Query()
	if s := q.Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return paging.Params{}, fmt.Errorf("paging: invalid offset %q", s)
		}
		p.Offset = v
	}
	if s := q.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return paging.Params{}, fmt.Errorf("paging: invalid limit %q", s)
		}
		p.Limit = v
	}
	if err := p.Validate(); err != nil {
		return paging.Params{}, err
	}
	return p, nil
}
