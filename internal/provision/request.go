package provision

// Request is the normalized configuration map built by the extractor.
// Values are strings, floats, or string lists. Once synthesis starts it
// is only ever extended with derived keys (resolved folder ids), never
// rewritten.
type Request map[string]any

func (r Request) Has(key string) bool {
	_, ok := r[key]
	return ok
}

func (r Request) String(key string) (string, bool) {
	v, ok := r[key].(string)
	return v, ok
}

// StringOr returns the value or a fallback, for display contexts where
// absence is not an error.
func (r Request) StringOr(key, fallback string) string {
	if v, ok := r.String(key); ok {
		return v
	}
	return fallback
}

func (r Request) Float(key string) (float64, bool) {
	v, ok := r[key].(float64)
	return v, ok
}

func (r Request) List(key string) ([]string, bool) {
	v, ok := r[key].([]string)
	return v, ok
}
