package http

import (
	"context"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestClientDo(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		switch r.URL.Path {
		case "/echo":
			var in map[string]int
			_ = json.NewDecoder(r.Body).Decode(&in)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"n":      in["n"] * 2,
				"q":      r.URL.Query().Get("q"),
				"agent":  r.Header.Get("User-Agent"),
				"accept": r.Header.Get("Accept"),
				"ctype":  r.Header.Get("Content-Type"),
			})
		case "/garbage":
			_, _ = w.Write([]byte("not json"))
		default:
			nethttp.Error(w, "gone", nethttp.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL+"/"), WithTimeout(time.Second), WithHeader("User-Agent", "probe"))
	ctx := context.Background()

	var out struct {
		N      int    `json:"n"`
		Q      string `json:"q"`
		Agent  string `json:"agent"`
		Accept string `json:"accept"`
		CType  string `json:"ctype"`
	}
	err := c.Do(ctx, RequestOptions{
		Method: nethttp.MethodPost,
		Path:   "echo",
		Query:  url.Values{"q": {"x"}},
		Body:   map[string]int{"n": 21},
	}, &out)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if out.N != 42 || out.Q != "x" || out.Agent != "probe" || out.Accept != "application/json" || out.CType != "application/json" {
		t.Fatalf("unexpected echo %+v", out)
	}

	var se *StatusError
	if err := c.Do(ctx, RequestOptions{Method: nethttp.MethodGet, Path: "/missing"}, nil); !errors.As(err, &se) || se.Code != nethttp.StatusNotFound || se.Body != "gone" {
		t.Fatalf("expected 404 status error, got %v", err)
	}

	var v map[string]interface{}
	if err := c.Do(ctx, RequestOptions{Method: nethttp.MethodGet, Path: "/garbage"}, &v); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}

	var raw []byte
	if err := c.Do(ctx, RequestOptions{Method: nethttp.MethodGet, Path: srv.URL + "/garbage"}, &raw); err != nil || string(raw) != "not json" {
		t.Fatalf("raw body = %q, err = %v", raw, err)
	}
}
