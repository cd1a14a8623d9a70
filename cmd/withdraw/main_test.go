package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	var gotPath, gotCaller string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotCaller = body["caller"]
		if gotCaller != "0xdeployer" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"not owner"}`))
			return
		}
		_, _ = w.Write([]byte(`{"tx_id":"abc","value":"0.6","fee":"0.0001"}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	require.NoError(t, run(ctx, srv.Client(), srv.URL, "0xdeployer", true))
	assert.Equal(t, "/cheap-withdraw", gotPath)
	assert.Equal(t, "0xdeployer", gotCaller)

	err := run(ctx, srv.Client(), srv.URL, "0xaccount1", false)
	assert.ErrorContains(t, err, "not owner")
	assert.Equal(t, "/withdraw", gotPath)
}

func TestRunReportsStatusForNonJSONBodies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/withdraw":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	err := run(ctx, srv.Client(), srv.URL, "0xdeployer", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "(404)")
	assert.Contains(t, err.Error(), "404 page not found")

	err = run(ctx, srv.Client(), srv.URL, "0xdeployer", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response (200)")
}
