package responses

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	pkgerrors "github.com/jirasak-dev/stockledger/pkg/errors"
	"github.com/jirasak-dev/stockledger/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestWriteSuccessWrapsData(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"name": "Milk"})

	require.Equal(t, 200, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Milk", body.Data["name"])
}

func TestWriteSuccessStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccessStatus(rec, 201, nil)

	require.Equal(t, 201, rec.Code)
	require.JSONEq(t, `{"data":null}`, rec.Body.String())
}

func TestWriteErrorPassesThroughSafeMessages(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "name must not be blank").
		WithDetails(map[string]any{"field": "name"})

	WriteError(context.Background(), testLogger(), rec, err)

	require.Equal(t, 400, rec.Code)

	var body ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, string(pkgerrors.CodeValidation), body.Error.Code)
	require.Equal(t, "name must not be blank", body.Error.Message)
	require.NotNil(t, body.Error.Details)
}

func TestWriteErrorMasksInternalMessages(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.Wrap(pkgerrors.CodeInternal, fmt.Errorf("pq: out of shared memory"), "saving product")

	WriteError(context.Background(), testLogger(), rec, err)

	require.Equal(t, 500, rec.Code)

	var body ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, string(pkgerrors.CodeInternal), body.Error.Code)
	require.NotContains(t, body.Error.Message, "shared memory")
	require.Nil(t, body.Error.Details)
}

func TestWriteErrorWrapsUntypedErrors(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(context.Background(), testLogger(), rec, fmt.Errorf("boom"))

	require.Equal(t, 500, rec.Code)

	var body ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, string(pkgerrors.CodeInternal), body.Error.Code)
}
