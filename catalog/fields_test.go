package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/apperror"
)

func TestParseFieldsCoercesStrings(t *testing.T) {
	fields, err := ParseFields(map[string]interface{}{
		"name":          "  Desk Lamp ",
		"description":   "LED lamp",
		"price":         "19.99",
		"originalPrice": "25",
		"discount":      "20",
		"rating":        4.5,
		"reviews":       "12",
		"gallery":       []interface{}{"https://cdn/a.png", " ", "https://cdn/b.png"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Desk Lamp", *fields.Name)
	assert.Equal(t, 19.99, *fields.Price)
	assert.Equal(t, 25.0, *fields.OriginalPrice)
	assert.Equal(t, 20, *fields.Discount)
	assert.Equal(t, 4.5, *fields.Rating)
	assert.Equal(t, 12, *fields.Reviews)
	assert.Equal(t, []string{"https://cdn/a.png", "https://cdn/b.png"}, fields.Gallery)
	assert.Nil(t, fields.Stock)
	assert.Nil(t, fields.PhotoPath)
}

func TestParseFieldsDropsUnparseableOptionals(t *testing.T) {
	fields, err := ParseFields(map[string]interface{}{
		"price":         10,
		"originalPrice": "ten",
		"discount":      "",
		"rating":        nil,
		"reviews":       "2.5",
		"stock":         "many",
	})
	require.NoError(t, err)

	assert.NotNil(t, fields.Price)
	assert.Nil(t, fields.OriginalPrice)
	assert.Nil(t, fields.Discount)
	assert.Nil(t, fields.Rating)
	assert.Nil(t, fields.Reviews)
	assert.Nil(t, fields.Stock)
}

func TestParseFieldsRejectsBadPrice(t *testing.T) {
	for _, price := range []interface{}{"abc", "NaN", "Inf", []interface{}{1}} {
		_, err := ParseFields(map[string]interface{}{"price": price})
		assert.True(t, apperror.IsKind(err, apperror.KindValidation), "price %v", price)
	}
}

func TestParseFieldsBlankPriceIsAbsent(t *testing.T) {
	fields, err := ParseFields(map[string]interface{}{"price": "  "})
	require.NoError(t, err)
	assert.Nil(t, fields.Price)
}

func TestParseFieldsRangeChecks(t *testing.T) {
	cases := []map[string]interface{}{
		{"price": -1},
		{"discount": 101},
		{"rating": 5.5},
		{"reviews": -3},
		{"stock": -1},
		{"originalPrice": -0.5},
	}
	for _, raw := range cases {
		_, err := ParseFields(raw)
		assert.True(t, apperror.IsKind(err, apperror.KindValidation), "%v", raw)
	}
}

func TestParseFormFields(t *testing.T) {
	fields, err := ParseFormFields(map[string][]string{
		"name":       {"Mug"},
		"price":      {"4.5"},
		"discount":   {""},
		"photo_path": {""},
		"gallery":    {"https://cdn/a.png\r\nhttps://cdn/b.png\n"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Mug", *fields.Name)
	assert.Equal(t, 4.5, *fields.Price)
	assert.Nil(t, fields.Discount)
	require.NotNil(t, fields.PhotoPath)
	assert.Equal(t, "", *fields.PhotoPath)
	assert.Equal(t, []string{"https://cdn/a.png", "https://cdn/b.png"}, fields.Gallery)
}

func TestParseFormFieldsClearsEmptiedOptionals(t *testing.T) {
	fields, err := ParseFormFields(map[string][]string{
		"name":          {"Mug"},
		"originalPrice": {"  "},
		"discount":      {""},
		"rating":        {""},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"originalPrice", "discount"}, fields.Clear)
	assert.Nil(t, fields.Rating)

	fields, err = ParseFormFields(map[string][]string{"discount": {"10"}})
	require.NoError(t, err)
	assert.Empty(t, fields.Clear)
	assert.Equal(t, 10, *fields.Discount)
}

func TestParseFieldsNeverClears(t *testing.T) {
	fields, err := ParseFields(map[string]interface{}{"originalPrice": "", "discount": nil})
	require.NoError(t, err)
	assert.Empty(t, fields.Clear)
}
