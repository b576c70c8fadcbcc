package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorWithKind(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	ErrorWithKind(ctx, http.StatusConflict, 40910, "DUPLICATE_CHECKIN", "already checked in today")

	assert.Equal(t, http.StatusConflict, w.Code)
	var body JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 40910, body.Code)
	assert.Equal(t, "DUPLICATE_CHECKIN", body.Kind)
	assert.Nil(t, body.Data)
}

func TestCreatedCarriesData(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	Created(ctx, gin.H{"id": 1})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"code":0,"message":"created","data":{"id":1}}`, w.Body.String())
}
