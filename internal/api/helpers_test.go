package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const testActorID = "trader-desk-1"

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)

	return l
}

// doRequest performs an HTTP request against the router with the actor header
// set and returns the recorder.
func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	return doRequestAs(r, method, path, body, testActorID)
}

// doRequestAs performs an HTTP request with an explicit actor header. An empty
// actorID omits the header entirely.
func doRequestAs(r *gin.Engine, method, path, body, actorID string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, http.NoBody)
	}
	if actorID != "" {
		req.Header.Set("X-Actor-ID", actorID)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}
