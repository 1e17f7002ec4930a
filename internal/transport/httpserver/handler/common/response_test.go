package common

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIDs(t *testing.T) {
	ids, err := ParseIDs([]string{"1,2", " 3 ", ""})
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3}, ids)

	_, err = ParseIDs([]string{"4,x"})
	assert.Error(t, err)

	_, err = ParseID("0")
	assert.Error(t, err)
}

func TestParseOptionalID(t *testing.T) {
	id, err := ParseOptionalID("")
	require.NoError(t, err)
	assert.Nil(t, id)

	id, err = ParseOptionalID("7")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, uint(7), *id)

	_, err = ParseOptionalID("books")
	assert.Error(t, err)
}

type signUpForm struct {
	Email string  `schema:"email" validate:"required,email"`
	Name  string  `schema:"name" validate:"max=5"`
	Price float64 `schema:"price" validate:"gte=0"`
}

func TestDecodeFormAndValidate(t *testing.T) {
	var form signUpForm
	require.NoError(t, DecodeForm(&form, map[string][]string{"email": {"a@b.co"}, "name": {"Ravi"}, "extra": {"x"}}))
	assert.NoError(t, Validate(form))

	form.Email = ""
	assert.Equal(t, "email is required", ValidationMessage(Validate(form)))

	form.Email = "a@b.co"
	form.Name = "Ravindra"
	assert.Equal(t, "name is too long", ValidationMessage(Validate(form)))

	form.Name = ""
	form.Price = -1
	assert.Equal(t, "price is too small", ValidationMessage(Validate(form)))
}

func TestWriteErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, 404, "item_not_found", "item not found")

	assert.Equal(t, 404, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":{"code":"item_not_found","message":"item not found"}}`, strings.TrimSpace(rec.Body.String()))
}

func TestWriteErrorRepeatsRequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	rec.Header().Set(RequestIDHeader, "host/abc-000001")
	WriteError(rec, 500, "internal_error", "internal error")

	assert.JSONEq(t, `{"error":{"code":"internal_error","message":"internal error","request_id":"host/abc-000001"}}`, strings.TrimSpace(rec.Body.String()))
}

func TestDecodeJSONRejectsUnknownAndTrailingData(t *testing.T) {
	var dst struct {
		Emoji string `json:"emoji"`
	}

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"emoji":"🔥"}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, "🔥", dst.Emoji)

	req = httptest.NewRequest("POST", "/", strings.NewReader(`{"emoji":"🔥","extra":1}`))
	assert.Error(t, DecodeJSON(req, &dst))

	req = httptest.NewRequest("POST", "/", strings.NewReader(`{"emoji":"a"} {"emoji":"b"}`))
	assert.Error(t, DecodeJSON(req, &dst))
}
