package platform

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"tvicladmin/internal/listing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL)
	require.NoError(t, err)
	return c, srv
}

func TestLoginStoresCookies(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "agent@tvicl.test", body["email"])
		http.SetCookie(w, &http.Cookie{Name: "accessToken", Value: "tok-1", Path: "/"})
		json.NewEncoder(w).Encode(map[string]any{"user": map[string]string{
			"id": "u1", "name": "Demo Agent", "email": "agent@tvicl.test", "role": "admin",
		}})
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		ck, err := r.Cookie("accessToken")
		if err != nil || ck.Value != "tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"user": map[string]string{"id": "u1"}})
	})

	c, _ := newTestClient(t, mux)
	u, err := c.Login(context.Background(), "agent@tvicl.test", "Passw0rd!")
	require.NoError(t, err)
	assert.Equal(t, "Demo Agent", u.Name)

	me, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", me.ID)
}

func TestExpiredTokenRefreshedAndRetriedOnce(t *testing.T) {
	var refreshes, meCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		refreshes.Add(1)
		http.SetCookie(w, &http.Cookie{Name: "accessToken", Value: "fresh", Path: "/"})
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		meCalls.Add(1)
		ck, err := r.Cookie("accessToken")
		if err != nil || ck.Value != "fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"user": map[string]string{"id": "u1"}})
	})

	c, _ := newTestClient(t, mux)
	u, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, int32(1), refreshes.Load())
	assert.Equal(t, int32(2), meCalls.Load())
}

func TestRefreshFailureSurfacesUnauthorized(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	c, _ := newTestClient(t, mux)
	_, err := c.Me(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAPIErrorCarriesStatusAndMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/properties/p1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "Property not found"})
	})

	c, _ := newTestClient(t, mux)
	_, err := c.GetProperty(context.Background(), "p1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Property not found", apiErr.Message)
}

func TestCreatePropertyMultipartLayout(t *testing.T) {
	var gotScalars map[string]string
	var gotAddress map[string]any
	var mediaNames []string
	var mediaMeta []map[string]any

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("submission hit %s, want /properties/create", r.URL.Path)
		http.NotFound(w, r)
	})
	mux.HandleFunc("/properties/create", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(32<<20))
		gotScalars = map[string]string{}
		for _, k := range []string{"title", "propertyType", "listingType", "transactionType"} {
			gotScalars[k] = r.FormValue(k)
		}
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("address")), &gotAddress))
		for _, fh := range r.MultipartForm.File["mediaFiles"] {
			mediaNames = append(mediaNames, fh.Filename)
		}
		for _, raw := range r.MultipartForm.Value["mediaData"] {
			var m map[string]any
			require.NoError(t, json.Unmarshal([]byte(raw), &m))
			mediaMeta = append(mediaMeta, m)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"id": "p-new"}})
	})

	c, _ := newTestClient(t, mux)

	d := listing.DefaultDraft(time.Now())
	d.Title = "Bungalow in Enugu"
	d.PropertyType = "Bungalow"
	d.ListingType = "For Sale"
	d.Address.City = "Enugu"
	d.Address.State = "Enugu"
	d.Media = []listing.MediaItem{
		{FileRef: "drafts/d1/a.jpg", Category: "cover", SubCategory: "cover", Type: "image", IsPrimary: true},
		{FileRef: "drafts/d1/b.jpg", Category: "exterior", SubCategory: "gallery", Type: "image", Caption: "Front"},
	}

	open := func(ref string) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader("fake-bytes-" + ref)), nil
	}
	data, err := c.CreateProperty(context.Background(), d, open)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"p-new"}`, string(data))

	assert.Equal(t, "Bungalow in Enugu", gotScalars["title"])
	assert.Equal(t, "Outright", gotScalars["transactionType"])
	assert.Equal(t, "Enugu", gotAddress["city"])
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, mediaNames)
	require.Len(t, mediaMeta, 2)
	assert.Equal(t, "cover", mediaMeta[0]["category"])
	assert.Equal(t, true, mediaMeta[0]["isPrimary"])
	assert.Equal(t, "Front", mediaMeta[1]["caption"])
}

func TestSearchPropertiesPassesQuery(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/properties", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Lagos", r.URL.Query().Get("state"))
		json.NewEncoder(w).Encode(map[string]any{
			"properties": []any{}, "total": 0, "page": 1, "pages": 0,
		})
	})
	c, _ := newTestClient(t, mux)
	q := url.Values{"state": {"Lagos"}}
	res, err := c.SearchProperties(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page)
}

func TestCancellerDropsSupersededRequests(t *testing.T) {
	g := NewCanceller()
	ctx1, done1 := g.Start(context.Background(), "search")
	ctx2, done2 := g.Start(context.Background(), "search")
	defer done2()

	<-ctx1.Done()
	assert.ErrorIs(t, ctx1.Err(), context.Canceled)
	assert.NoError(t, ctx2.Err())
	done1() // releasing the stale handle must not cancel the live one
	assert.NoError(t, ctx2.Err())
}

func TestTokenExpiry(t *testing.T) {
	// HS256 token with exp 2030-01-01; signature irrelevant for unverified parse.
	claims := base64.RawURLEncoding.EncodeToString([]byte(`{"exp":1893456000}`))
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	token := header + "." + claims + ".sig"

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "accessToken", Value: token, Path: "/"})
		json.NewEncoder(w).Encode(map[string]any{"user": map[string]string{"id": "u1"}})
	})
	c, _ := newTestClient(t, mux)
	_, err := c.Login(context.Background(), "a@b.test", "pw")
	require.NoError(t, err)

	exp, ok := c.TokenExpiry()
	require.True(t, ok)
	assert.Equal(t, int64(1893456000), exp.Unix())
}
