package register

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"scheduler_service/internal/auth"
)

type fakeRegistrar struct {
	id  int64
	err error
}

func (f *fakeRegistrar) Register(_ context.Context, _, _ string) (int64, error) {
	return f.id, f.err
}

func post(handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/registration", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func testLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRegisterHandler_OK(t *testing.T) {
	t.Parallel()

	handler := New(testLog(), &fakeRegistrar{id: 5})

	rec := post(handler, `{"email":"user@example.com","password":"Sup3rsecret"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"account_id":5`)
}

func TestRegisterHandler_MissingFields(t *testing.T) {
	t.Parallel()

	handler := New(testLog(), &fakeRegistrar{})

	rec := post(handler, `{"email":"user@example.com"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "required")
}

func TestRegisterHandler_WeakPasswordGetsSpecificMessage(t *testing.T) {
	t.Parallel()

	handler := New(testLog(), &fakeRegistrar{err: auth.ErrWeakPassword})

	rec := post(handler, `{"email":"user@example.com","password":"weak"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "policy")
}

func TestRegisterHandler_DuplicateAccount(t *testing.T) {
	t.Parallel()

	handler := New(testLog(), &fakeRegistrar{err: auth.ErrAccountExists})

	rec := post(handler, `{"email":"user@example.com","password":"Sup3rsecret"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")
}

func TestRegisterHandler_BadJSON(t *testing.T) {
	t.Parallel()

	handler := New(testLog(), &fakeRegistrar{})

	rec := post(handler, `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
