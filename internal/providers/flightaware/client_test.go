package flightaware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClient_GetFlights(t *testing.T) {
	var gotPath, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-apikey")
		_, _ = io.WriteString(w, `{"flights":[{"ident":"DAL123","aircraft_type":"B738",
			"origin":{"code":"KATL","code_iata":"ATL","city":"Atlanta"},
			"destination":{"code":"KTPA","code_iata":"TPA","city":"Tampa"}}]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL+"/aeroapi", "secret", slog.New(slog.NewTextHandler(io.Discard, nil)))
	resp, err := client.GetFlights(context.Background(), "DAL123")
	if err != nil {
		t.Fatalf("GetFlights() unexpected error = %v", err)
	}

	if gotPath != "/aeroapi/flights/DAL123" {
		t.Errorf("request path = %q, want /aeroapi/flights/DAL123", gotPath)
	}
	if gotKey != "secret" {
		t.Errorf("x-apikey = %q, want secret", gotKey)
	}
	if len(resp.Flights) != 1 {
		t.Fatalf("len(Flights) = %d, want 1", len(resp.Flights))
	}
	f := resp.Flights[0]
	if f.Origin == nil || f.Origin.CodeIATA != "ATL" || f.Destination == nil || f.Destination.CodeIATA != "TPA" {
		t.Errorf("flight = %+v", f)
	}
}

func TestClient_GetFlights_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"title":"Unauthorized"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad", slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := client.GetFlights(context.Background(), "DAL123")
	if err == nil || !strings.Contains(err.Error(), "status 401") {
		t.Errorf("GetFlights() error = %v, want status 401", err)
	}
}
