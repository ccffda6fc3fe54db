package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
)

func TestParseAmount(t *testing.T) {
	valid := map[string]string{
		"1000":      "1000",
		"0.1":       "0.1",
		"1250.50":   "1250.5",
		"7.500":     "7.5",
		"1.5e2":     "150",
		"-20":       "-20",
		"000042.50": "42.5",
	}
	for in, want := range valid {
		got, err := parseAmount(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got.String(), in)
	}

	invalid := []string{
		"", "abc", "NaN", "Inf", "-Infinity", "1,000", "12.3.4",
		"1e-90000000", "1e90000000", "0.004", "12.345",
		"123456789012345678901234567890123",
	}
	for _, in := range invalid {
		_, err := parseAmount(in)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount, in)
	}
}

func TestParseOptionalDate(t *testing.T) {
	d, err := parseOptionalDate("")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = parseOptionalDate("2024-02-29")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, 29, d.Day())

	_, err = parseOptionalDate("2023-02-29")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestParseID(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")

	for raw, ok := range map[string]bool{"1": true, "2147483647": true, "0": false, "-1": false, "2147483648": false, "x": false, "": false} {
		c.SetParamValues(raw)
		id, err := parseID(c, "id")
		if ok {
			assert.NoError(t, err, raw)
			assert.Positive(t, id, raw)
		} else {
			assert.Error(t, err, raw)
		}
	}
}

func TestWriteDomainError_Unknown(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	handled, err := writeDomainError(c, assert.AnError)
	assert.False(t, handled)
	assert.NoError(t, err)
	assert.Zero(t, rec.Body.Len())
}
