package backend

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	singleObjectMediaType = "application/vnd.pgrst.object+json"
	noRowsCode            = "PGRST116"
)

// RESTSource queries tables through the hosted REST endpoint (<url>/rest/v1).
type RESTSource struct {
	client *resty.Client
}

type restError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// NewRESTSource builds a data source for baseURL authenticated with apiKey.
// A zero timeout leaves the HTTP client default in place.
func NewRESTSource(baseURL, apiKey string, timeout time.Duration) *RESTSource {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")+"/rest/v1").
		SetHeader("apikey", apiKey).
		SetAuthToken(apiKey)
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &RESTSource{client: client}
}

// Select runs q and decodes the JSON result into dest.
func (s *RESTSource) Select(ctx context.Context, q Query, dest interface{}) error {
	if err := q.Validate(); err != nil {
		return err
	}

	var apiErr restError
	req := s.client.R().
		SetContext(ctx).
		SetQueryParamsFromValues(restParams(q)).
		SetError(&apiErr)
	if q.Single {
		req.SetHeader("Accept", singleObjectMediaType)
	} else {
		req.SetHeader("Accept", "application/json")
	}

	resp, err := req.Get("/" + q.Table)
	if err != nil {
		return fmt.Errorf("select %s: %w", q.Table, err)
	}
	if resp.IsError() {
		if q.Single && apiErr.Code == noRowsCode {
			return sql.ErrNoRows
		}
		msg := apiErr.Message
		if msg == "" {
			msg = resp.Status()
		}
		return fmt.Errorf("select %s: %s", q.Table, msg)
	}

	if err := json.Unmarshal(resp.Body(), dest); err != nil {
		return fmt.Errorf("decode %s: %w", q.Table, err)
	}
	return nil
}

func restParams(q Query) url.Values {
	params := url.Values{}
	columns := "*"
	if len(q.Columns) > 0 {
		columns = strings.Join(q.Columns, ",")
	}
	params.Set("select", columns)
	for _, f := range q.Filters {
		params.Add(f.Column, "eq."+fmt.Sprint(f.Value))
	}
	if len(q.OrderBy) > 0 {
		keys := make([]string, 0, len(q.OrderBy))
		for _, o := range q.OrderBy {
			dir := "asc"
			if o.Descending {
				dir = "desc"
			}
			keys = append(keys, o.Column+"."+dir)
		}
		params.Set("order", strings.Join(keys, ","))
	}
	return params
}
