package service

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformDataJSONArray(t *testing.T) {
	s := &ImportService{}

	urls, err := s.TransformData(`["https://a.example/p/1","https://b.example/p/2"]`, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example/p/1", "https://b.example/p/2"}, urls)
}

func TestTransformDataLines(t *testing.T) {
	s := &ImportService{}

	raw := "https://a.example/p/1\n\nnot a url\nhttps://b.example/p/2\n"
	urls, err := s.TransformData(raw, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example/p/1", "https://b.example/p/2"}, urls)
}

func TestTransformDataScript(t *testing.T) {
	s := &ImportService{}

	raw := `{"items":[{"url":"https://a.example/p/1"},{"url":"https://b.example/p/2"}]}`
	script := `
		var data = JSON.parse(rawData);
		return data.items.map(function(item) { return item.url; });
	`
	urls, err := s.TransformData(raw, script)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example/p/1", "https://b.example/p/2"}, urls)
}

func TestTransformDataScriptError(t *testing.T) {
	s := &ImportService{}

	_, err := s.TransformData("{}", "return nonsense.that.does.not.exist;")
	assert.Error(t, err)
}

func TestTransformDataUnparseable(t *testing.T) {
	s := &ImportService{}

	_, err := s.TransformData("garbage with no links", "")
	assert.Error(t, err)
}

func TestTestTaskRunsFetchAndTransform(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `["https://a.example/p/1","https://b.example/p/2"]`)
	}))
	defer srv.Close()

	s := &ImportService{}
	urls, err := s.TestTask("curl "+srv.URL, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example/p/1", "https://b.example/p/2"}, urls)
}

func TestTestTaskEmptyFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := &ImportService{}
	_, err := s.TestTask("curl "+srv.URL, "")
	assert.ErrorContains(t, err, "empty data")
}

func TestExecuteCurlCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "feed-client", r.Header.Get("X-Client"))
		fmt.Fprint(w, `["https://a.example/p/1"]`)
	}))
	defer srv.Close()

	s := &ImportService{}
	out, err := s.ExecuteCurlCommand(fmt.Sprintf(`curl -H "X-Client: feed-client" %s`, srv.URL))
	require.NoError(t, err)
	assert.Equal(t, `["https://a.example/p/1"]`, out)
}
