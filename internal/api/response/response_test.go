package response

import (
	"context"
	"errors"
	"net/http"
	"testing"

	json "github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/temsafy/temsafy/internal/perrors"
)

func TestWriteSuccessEnvelope(t *testing.T) {
	var fctx fasthttp.RequestCtx

	NewResponse(context.Background(), "Task created", map[string]string{"id": "42"}).Write(&fctx)

	assert.Equal(t, http.StatusOK, fctx.Response.StatusCode())
	assert.Equal(t, "application/json", string(fctx.Response.Header.ContentType()))

	var body struct {
		Error   bool              `json:"error"`
		Message string            `json:"message"`
		Data    map[string]string `json:"data"`
		Status  int               `json:"status"`
	}
	require.NoError(t, json.Unmarshal(fctx.Response.Body(), &body))
	assert.False(t, body.Error)
	assert.Equal(t, "Task created", body.Message)
	assert.Equal(t, "42", body.Data["id"])
	assert.Equal(t, http.StatusOK, body.Status)
}

func TestWithErrorUsesErrStatus(t *testing.T) {
	var fctx fasthttp.RequestCtx

	err := perrors.NewErrInvalidRequest("Invalid payload", errors.New("missing title"))
	NewResponse[any](context.Background(), "Invalid payload", nil).WithError(err).Write(&fctx)

	assert.Equal(t, http.StatusBadRequest, fctx.Response.StatusCode())

	var body struct {
		Error  bool `json:"error"`
		Status int  `json:"status"`
	}
	require.NoError(t, json.Unmarshal(fctx.Response.Body(), &body))
	assert.True(t, body.Error)
	assert.Equal(t, http.StatusBadRequest, body.Status)
}

func TestWithErrorWrapsPlainErrors(t *testing.T) {
	var fctx fasthttp.RequestCtx

	NewResponse[any](context.Background(), "Lookup failed", nil).
		WithError(errors.New("connection reset")).
		Write(&fctx)

	assert.Equal(t, http.StatusInternalServerError, fctx.Response.StatusCode())
}
