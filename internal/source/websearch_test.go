package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ddgPage = `<html><body>
<div class="result">
  <h2><a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fjobs.lever.co%2Facme%2F123%3Fref%3Dddg&rut=abc">SOC Analyst   Intern</a></h2>
  <a class="result__snippet">Monitor   alerts in Splunk.</a>
</div>
<div class="result">
  <h2><a class="result__a" href="https://cutshort.io/job/vapt-1">VAPT Trainee</a></h2>
</div>
<div class="result">
  <h2><a class="result__a" href="javascript:void(0)">Ad</a></h2>
</div>
<div class="result"><span>no anchor</span></div>
</body></html>`

func TestWebSearch_Fetch(t *testing.T) {
	var gotQ string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQ = r.URL.Query().Get("q")
		w.Write([]byte(ddgPage))
	}))
	defer srv.Close()

	s := NewWebSearch(srv.URL+"/html/", "security intern india", srv.Client())
	cands, err := s.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "security intern india", gotQ)
	require.Len(t, cands, 2)
	assert.Equal(t, "SOC Analyst Intern", cands[0].Title)
	assert.Equal(t, "https://jobs.lever.co/acme/123?ref=ddg", cands[0].RawLink)
	assert.Equal(t, "Monitor alerts in Splunk.", cands[0].Snippet)
	assert.Equal(t, "https://cutshort.io/job/vapt-1", cands[1].RawLink)
	assert.Empty(t, cands[1].Snippet)
}

func TestWebSearch_NonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewWebSearch(srv.URL, "q", srv.Client()).Fetch(context.Background())
	assert.Error(t, err)
}
