package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/schema"
)

// FilterRequest is one click translated by the client: field, value, chip
// label and the modifier-key state as append/batch flags.
type FilterRequest struct {
	Scope  string `json:"scope" schema:"scope"`
	Field  string `json:"field" schema:"field"`
	Value  string `json:"value" schema:"value"`
	Label  string `json:"label" schema:"label"`
	Append bool   `json:"append" schema:"append"`
	Batch  bool   `json:"batch" schema:"batch"`
}

// ViewRequest asks for the derived dataset of a scope. Filters is the page's
// full filter object; the server decides which part of it is base.
type ViewRequest struct {
	Scope   string         `json:"scope" schema:"scope"`
	Dim     bool           `json:"dim" schema:"dim"`
	Filters map[string]any `json:"filters" schema:"-"`
}

func GetFilterFromRequest(r *http.Request, filterRequest *FilterRequest) error {
	if r.Method == http.MethodGet {
		decoder := schema.NewDecoder()
		decoder.IgnoreUnknownKeys(true)
		return decoder.Decode(filterRequest, r.URL.Query())
	}
	return json.NewDecoder(r.Body).Decode(filterRequest)
}

func GetViewQueryFromRequest(r *http.Request, viewRequest *ViewRequest) error {
	if r.Method == http.MethodGet {
		return viewFromRequestQuery(r.URL.Query(), viewRequest)
	}
	return json.NewDecoder(r.Body).Decode(viewRequest)
}

func viewFromRequestQuery(query url.Values, result *ViewRequest) error {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	if err := decoder.Decode(result, query); err != nil {
		return err
	}
	decodePageFilters(query, result)
	return nil
}

// decodePageFilters reads repeated f=field:value parameters, "||" separating
// multi values. The separator is reserved: a literal "||" cannot be expressed
// in the GET form, clients with such values use the json body of the POST
// form, which carries the filter object untouched.
func decodePageFilters(query url.Values, result *ViewRequest) {
	if result.Filters == nil {
		result.Filters = make(map[string]any)
	}
	for _, v := range query["f"] {
		parts := strings.SplitN(v, ":", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.Contains(parts[1], "||") {
			result.Filters[parts[0]] = strings.Split(parts[1], "||")
		} else {
			result.Filters[parts[0]] = parts[1]
		}
	}
}
