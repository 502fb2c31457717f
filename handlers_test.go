package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestCreateUserHandler_ReportsFailingFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"Ali Khan"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	createUserHandler()(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "invalid request", body.Error)
	require.Equal(t, "required", body.Fields["Mobile"])
	require.Equal(t, "required", body.Fields["Address"])
	require.NotContains(t, body.Fields, "Name")
}

func TestCreateUserHandler_MalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{`))
	c.Request.Header.Set("Content-Type", "application/json")

	createUserHandler()(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NotContains(t, w.Body.String(), "fields")
}
