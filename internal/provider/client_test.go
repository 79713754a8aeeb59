package provider

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"salesdash/internal/config"
	"salesdash/internal/errors"
	"salesdash/internal/models"
	"salesdash/internal/observability"
)

func newTestClient(endpoint string) *Client {
	return NewClient(config.ProviderConfig{Endpoint: endpoint, Timeout: 5 * time.Second}, observability.Discard())
}

func TestClient_Fetch_QueryParameters(t *testing.T) {
	tests := []struct {
		name       string
		query      models.Query
		wantRegion string
		wantYear   string
	}{
		{"all", models.Query{Region: models.All[models.Region](), Year: models.All[int]()}, "", ""},
		{"region lowercased", models.Query{Region: models.Only(models.RegionMidwest), Year: models.All[int]()}, "centro-oeste", ""},
		{"region and year", models.Query{Region: models.Only(models.RegionSouth), Year: models.Only(2021)}, "sul", "2021"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got url.Values
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("method = %s, want GET", r.Method)
				}
				got = r.URL.Query()
				w.Write([]byte(`[]`))
			}))
			defer srv.Close()

			body, err := newTestClient(srv.URL).Fetch(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if string(body) != "[]" {
				t.Errorf("body = %q", body)
			}

			if !got.Has("regiao") || !got.Has("ano") {
				t.Fatalf("both parameters must always be sent, got %v", got)
			}
			if got.Get("regiao") != tt.wantRegion {
				t.Errorf("regiao = %q, want %q", got.Get("regiao"), tt.wantRegion)
			}
			if got.Get("ano") != tt.wantYear {
				t.Errorf("ano = %q, want %q", got.Get("ano"), tt.wantYear)
			}
		})
	}
}

func TestClient_Fetch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	body, err := newTestClient(srv.URL).Fetch(context.Background(), models.Query{})
	if body != nil {
		t.Errorf("expected no payload on failure, got %q", body)
	}

	var fetchErr *errors.FetchError
	if !stderrors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T (%v)", err, err)
	}
	if fetchErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", fetchErr.StatusCode)
	}
	if fetchErr.Body != "upstream exploded" {
		t.Errorf("Body = %q", fetchErr.Body)
	}
}

func TestClient_Fetch_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	_, err := newTestClient(endpoint).Fetch(context.Background(), models.Query{})

	var fetchErr *errors.FetchError
	if !stderrors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T (%v)", err, err)
	}
	if fetchErr.StatusCode != 0 || fetchErr.Cause == nil {
		t.Errorf("transport failure should have status 0 and a cause, got %+v", fetchErr)
	}
}

func TestClient_Fetch_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(srv.URL).Fetch(ctx, models.Query{})
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain, got %v", err)
	}
}
