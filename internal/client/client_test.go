package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientFetches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case PathStatus:
			json.NewEncoder(w).Encode(map[string]interface{}{
				"cpu":     17.5,
				"ram":     63.2,
				"storage": map[string]interface{}{"used": 1048576, "total": 10485760, "percent": 10},
				"uptime":  "2d 1h 3m",
			})
		case PathAppsStorage:
			json.NewEncoder(w).Encode(map[string]interface{}{
				"total": 3,
				"apps": []map[string]interface{}{
					{"name": "a", "size": 1, "percent": 33.33},
					{"name": "b", "size": 2, "percent": 66.67},
				},
			})
		case PathLogs:
			json.NewEncoder(w).Encode(map[string]string{"logs": "hello\nworld"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	ctx := context.Background()

	snap, err := c.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if snap.CPU != 17.5 || snap.Storage.Used != 1048576 || snap.Uptime != "2d 1h 3m" {
		t.Errorf("unexpected snapshot %+v", snap)
	}

	apps, err := c.AppsStorage(ctx)
	if err != nil {
		t.Fatalf("AppsStorage: %v", err)
	}
	if len(apps.Apps) != 2 || apps.Apps[1].Name != "b" {
		t.Errorf("unexpected apps %+v", apps)
	}

	blob, err := c.Logs(ctx)
	if err != nil {
		t.Fatalf("Logs: %v", err)
	}
	if blob.Logs != "hello\nworld" {
		t.Errorf("logs = %q", blob.Logs)
	}
}

func TestClientActionsSendToken(t *testing.T) {
	var gotAuth, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotMethod = r.Method
		json.NewEncoder(w).Encode(map[string]interface{}{"ok": true, "message": "Cache cleared"})
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("secret"))
	res, err := c.ClearCache(context.Background())
	if err != nil {
		t.Fatalf("ClearCache: %v", err)
	}
	if !res.OK || res.Message != "Cache cleared" {
		t.Errorf("unexpected result %+v", res)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("method = %s, want POST", gotMethod)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestClientStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"missing token"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Restart(context.Background())

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if se.Code != http.StatusUnauthorized || se.Message != "missing token" {
		t.Errorf("unexpected error %+v", se)
	}
}

func TestClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	_, err := New(srv.URL, WithTimeout(20*time.Millisecond)).Status(context.Background())
	if err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestClientBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	if _, err := New(srv.URL).Logs(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}
