package test_utils

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func MakeGetRequest(
	t *testing.T,
	router *gin.Engine,
	url string,
	token string,
	expectedStatus int,
) *httptest.ResponseRecorder {
	t.Helper()

	request := httptest.NewRequest(http.MethodGet, url, nil)
	if token != "" {
		request.Header.Set("Authorization", token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, expectedStatus, recorder.Code, "unexpected status for GET %s: %s", url, recorder.Body.String())

	return recorder
}

func MakeGetRequestAndUnmarshal(
	t *testing.T,
	router *gin.Engine,
	url string,
	token string,
	expectedStatus int,
	response any,
) {
	t.Helper()

	recorder := MakeGetRequest(t, router, url, token, expectedStatus)

	err := json.Unmarshal(recorder.Body.Bytes(), response)
	assert.NoError(t, err, "failed to unmarshal response for GET %s", url)
}

func MakePostRequest(
	t *testing.T,
	router *gin.Engine,
	url string,
	token string,
	body any,
	expectedStatus int,
) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	assert.NoError(t, err)

	request := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, expectedStatus, recorder.Code, "unexpected status for POST %s: %s", url, recorder.Body.String())

	return recorder
}

func MakePostRequestAndUnmarshal(
	t *testing.T,
	router *gin.Engine,
	url string,
	token string,
	body any,
	expectedStatus int,
	response any,
) {
	t.Helper()

	recorder := MakePostRequest(t, router, url, token, body, expectedStatus)

	err := json.Unmarshal(recorder.Body.Bytes(), response)
	assert.NoError(t, err, "failed to unmarshal response for POST %s", url)
}
