package dto

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type phoneHolder struct {
	Phone string `binding:"mpesa_phone"`
}

type urlHolder struct {
	URL string `binding:"safe_url"`
}

func engine(t *testing.T) *validator.Validate {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	return v
}

func TestValidatePhone(t *testing.T) {
	v := engine(t)
	cases := []struct {
		phone string
		valid bool
	}{
		{"254708374149", true},
		{"+254708374149", true},
		{"0708374149", true},
		{"12345", false},
		{"notaphone", false},
		{"2547-0837-4149", false},
	}
	for _, tc := range cases {
		err := v.Struct(phoneHolder{Phone: tc.phone})
		if tc.valid {
			assert.NoError(t, err, tc.phone)
		} else {
			assert.Error(t, err, tc.phone)
		}
	}
}

func TestValidateSafeURL(t *testing.T) {
	v := engine(t)
	cases := []struct {
		url   string
		valid bool
	}{
		{"https://example.com/hook", true},
		{"http://localhost:8080/cb", true},
		{"internal://provider/stk_push", true},
		{"ftp://example.com", false},
		{"javascript:alert(1)", false},
		{"", true},
	}
	for _, tc := range cases {
		err := v.Struct(urlHolder{URL: tc.url})
		if tc.valid {
			assert.NoError(t, err, tc.url)
		} else {
			assert.Error(t, err, tc.url)
		}
	}
}
