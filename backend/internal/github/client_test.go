package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ifatinha/ghost-following/backend/pkg/errors"
)

func TestFetch_WithoutToken(t *testing.T) {
	var gotAuth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Values("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	resp, err := client.Fetch(context.Background(), srv.URL+"/users/ifatinha")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, gotAuth)
}

func TestFetch_WithToken(t *testing.T) {
	var gotAuth []string
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Values("Authorization")
		gotUA = r.UserAgent()
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok")
	_, err := client.Fetch(context.Background(), srv.URL+"/users/ifatinha")
	require.NoError(t, err)

	assert.Equal(t, []string{"token tok"}, gotAuth)
	assert.NotEmpty(t, gotUA)
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not Found"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	resp, err := client.Fetch(context.Background(), srv.URL+"/users/nobody")

	assert.Nil(t, resp)
	var httpErr *apperrors.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.JSONEq(t, `{"message":"Not Found"}`, string(httpErr.Body))
}

func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := NewClient(srv.URL, "", WithTimeout(50*time.Millisecond))
	_, err := client.Fetch(context.Background(), srv.URL)

	require.Error(t, err)
	assert.False(t, apperrors.IsErrorType(err, apperrors.ErrorTypeGitHub))
}

func TestAllPages_FollowsNextLink(t *testing.T) {
	var hits int32
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		switch r.URL.Query().Get("page") {
		case "", "1":
			w.Header().Set("Link", fmt.Sprintf(`<%s/items?page=2>; rel="next", <%s/items?page=2>; rel="last"`, srv.URL, srv.URL))
			w.Write([]byte(`[{"login":"john"},{"login":"jane"}]`))
		case "2":
			w.Header().Set("Link", fmt.Sprintf(`<%s/items?page=1>; rel="first", <%s/items?page=1>; rel="prev"`, srv.URL, srv.URL))
			w.Write([]byte(`[{"login":"sully"}]`))
		default:
			t.Errorf("unexpected page %q", r.URL.RawQuery)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	records, err := client.AllPages(context.Background(), srv.URL+"/items?per_page=100")
	require.NoError(t, err)

	want := []Record{{"login": "john"}, {"login": "jane"}, {"login": "sully"}}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("AllPages() mismatch (-want +got):\n%s", diff)
	}
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits))
}

func TestAllPages_AbortsOnPageError(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"message":"API rate limit exceeded"}`))
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s/items?page=2>; rel="next"`, srv.URL))
		w.Write([]byte(`[{"login":"john"}]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	records, err := client.AllPages(context.Background(), srv.URL+"/items")

	assert.Nil(t, records)
	var httpErr *apperrors.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusForbidden, httpErr.StatusCode)
}

func TestAllPages_RejectsNonArrayBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"login":"john"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	_, err := client.AllPages(context.Background(), srv.URL)

	var decodeErr *apperrors.DecodeError
	assert.True(t, errors.As(err, &decodeErr))
}

func TestNextLink(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty", "", ""},
		{"last page", `<https://api.github.com/x?page=1>; rel="prev"`, ""},
		{"next present", `<https://api.github.com/x?page=3>; rel="next", <https://api.github.com/x?page=9>; rel="last"`, "https://api.github.com/x?page=3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextLink(tt.header))
		})
	}
}

func TestRelationURL(t *testing.T) {
	client := NewClient("https://api.github.com/", "")

	assert.Equal(t, "https://api.github.com/users/ifatinha/followers?per_page=100", client.RelationURL("ifatinha", Followers))
	assert.Equal(t, "https://api.github.com/users/ifatinha/following?per_page=100", client.RelationURL("ifatinha", Following))
}

type countingTransport struct {
	calls int32
}

func (t *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	atomic.AddInt32(&t.calls, 1)
	return http.DefaultTransport.RoundTrip(r)
}

func TestNewClient_TimeoutAppliedToCopy(t *testing.T) {
	shared := &http.Client{}

	before := NewClient("https://api.github.com", "", WithHTTPClient(shared), WithTimeout(time.Second))
	after := NewClient("https://api.github.com", "", WithTimeout(time.Second), WithHTTPClient(&http.Client{}))
	defaulted := NewClient("https://api.github.com", "", WithHTTPClient(&http.Client{}))

	assert.Equal(t, time.Duration(0), shared.Timeout)
	assert.Equal(t, time.Second, before.httpClient.Timeout)
	assert.Equal(t, time.Second, after.httpClient.Timeout)
	assert.Equal(t, 30*time.Second, defaulted.httpClient.Timeout)
	assert.Equal(t, 30*time.Second, NewClient("https://api.github.com", "").httpClient.Timeout)
}

func TestNewClient_UsesSuppliedTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	transport := &countingTransport{}
	client := NewClient(srv.URL, "", WithHTTPClient(&http.Client{Transport: transport}))

	_, err := client.AllPages(context.Background(), srv.URL+"/items")
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&transport.calls))
}

func TestAllPages_TokenStaysOnAPIHost(t *testing.T) {
	var foreignAuth []string
	foreign := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		foreignAuth = r.Header.Values("Authorization")
		w.Write([]byte(`[{"login":"sully"}]`))
	}))
	defer foreign.Close()

	var apiAuth string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiAuth = r.Header.Get("Authorization")
		w.Header().Set("Link", fmt.Sprintf(`<%s/items?page=2>; rel="next"`, foreign.URL))
		w.Write([]byte(`[{"login":"john"}]`))
	}))
	defer api.Close()

	client := NewClient(api.URL, "secret")
	records, err := client.AllPages(context.Background(), api.URL+"/items")
	require.NoError(t, err)

	assert.Len(t, records, 2)
	assert.Equal(t, "token secret", apiAuth)
	assert.Empty(t, foreignAuth)
}

func TestAllPages_RejectsNullBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	records, err := client.AllPages(context.Background(), srv.URL)

	assert.Nil(t, records)
	var decodeErr *apperrors.DecodeError
	assert.True(t, errors.As(err, &decodeErr))
}

func TestAllPages_EmptyArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	records, err := client.AllPages(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Empty(t, records)
}
