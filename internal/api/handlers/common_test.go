package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonBody(s string) io.Reader { return strings.NewReader(s) }

func TestPageParams(t *testing.T) {
	skip, limit, err := pageParams(httptest.NewRequest(http.MethodGet, "/?skip=5&limit=20", nil))
	require.NoError(t, err)
	assert.Equal(t, 5, skip)
	assert.Equal(t, 20, limit)

	skip, limit, err = pageParams(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Zero(t, skip)
	assert.Zero(t, limit)

	_, _, err = pageParams(httptest.NewRequest(http.MethodGet, "/?limit=x", nil))
	assert.Error(t, err)
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	var dst genreReq
	rec := httptest.NewRecorder()
	err := decodeJSON(rec, httptest.NewRequest(http.MethodPost, "/", jsonBody(`{"genrename":"x","extra":1}`)), &dst)
	assert.Error(t, err)
}
