package catalog

import (
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"

	"storefront/apperror"
	"storefront/models"
	"storefront/utils"
)

var validate = validator.New()

// ParseFields coerces a loosely typed payload (decoded JSON or form values).
//
// Absent, null and blank values are treated as not provided. A price that is
// present but not a finite number is rejected; any other numeric field that
// fails to parse is dropped.
func ParseFields(raw map[string]interface{}) (models.ProductFields, error) {
	var fields models.ProductFields

	fields.Name = stringField(raw, "name")
	fields.Description = stringField(raw, "description")
	fields.PhotoPath = stringField(raw, "photo_path")
	fields.Category = stringField(raw, "category")

	if v, ok := present(raw, "price"); ok {
		price, ok := toFloat(v)
		if !ok {
			return fields, apperror.Validation("Price must be a valid number")
		}
		fields.Price = &price
	}

	fields.OriginalPrice = optionalFloat(raw, "originalPrice")
	fields.Rating = optionalFloat(raw, "rating")
	fields.Discount = optionalInt(raw, "discount")
	fields.Reviews = optionalInt(raw, "reviews")
	fields.Stock = optionalInt(raw, "stock")

	if v, ok := raw["gallery"]; ok && v != nil {
		gallery, err := cast.ToStringSliceE(v)
		if err == nil {
			fields.Gallery = cleanGallery(gallery)
		}
	}

	if err := validate.Struct(fields); err != nil {
		return fields, rangeError(err)
	}
	return fields, nil
}

// ParseFormFields adapts admin form values to ParseFields. The gallery
// textarea holds one URL per line.
func ParseFormFields(form map[string][]string) (models.ProductFields, error) {
	raw := make(map[string]interface{}, len(form))
	for key, values := range form {
		if len(values) == 0 {
			continue
		}
		if key == "gallery" {
			raw[key] = strings.Split(values[0], "\n")
			continue
		}
		raw[key] = values[0]
	}

	fields, err := ParseFields(raw)
	if err != nil {
		return fields, err
	}
	for _, key := range clearable {
		if values, ok := form[key]; ok && len(values) > 0 && strings.TrimSpace(values[0]) == "" {
			fields.Clear = append(fields.Clear, key)
		}
	}
	return fields, nil
}

// clearable optional fields have no default, so an emptied form box removes them
var clearable = []string{"originalPrice", "discount"}

// present returns the raw value when it is neither null nor blank
func present(raw map[string]interface{}, key string) (interface{}, bool) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, false
	}
	if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
		return nil, false
	}
	return v, true
}

func stringField(raw map[string]interface{}, key string) *string {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil
	}
	s := strings.TrimSpace(cast.ToString(v))
	return &s
}

func toFloat(v interface{}) (float64, bool) {
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func optionalFloat(raw map[string]interface{}, key string) *float64 {
	v, ok := present(raw, key)
	if !ok {
		return nil
	}
	f, ok := toFloat(v)
	if !ok {
		return nil
	}
	return &f
}

// optionalInt accepts whole numbers only; fractional input counts as unparseable
func optionalInt(raw map[string]interface{}, key string) *int {
	v, ok := present(raw, key)
	if !ok {
		return nil
	}
	f, ok := toFloat(v)
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return nil
	}
	i := int(f)
	return &i
}

func cleanGallery(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}

func rangeError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return apperror.Validation("Invalid product fields")
	}
	first := verrs[0]
	return apperror.Validation(first.Field() + ": " + utils.FormatValidationError(first))
}
