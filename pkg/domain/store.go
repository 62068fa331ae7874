package domain

import "time"

// StoreRef is a local reference to a file search store that lives entirely
// on the Gemini side. The resource name looks like "fileSearchStores/xyz".
type StoreRef struct {
	Name        string    `json:"name"`
	DisplayName string    `json:"displayName,omitempty"`
	CreateTime  time.Time `json:"createTime,omitempty"`
}

// CustomMetadata is one key/value attribute attached to an imported document.
// Exactly one of StringValue or NumericValue is set.
type CustomMetadata struct {
	Key          string   `json:"key"`
	StringValue  string   `json:"stringValue,omitempty"`
	NumericValue *float64 `json:"numericValue,omitempty"`
}

// StringMeta builds a string-valued metadata attribute.
func StringMeta(key, value string) CustomMetadata {
	return CustomMetadata{Key: key, StringValue: value}
}

// NumericMeta builds a numeric-valued metadata attribute.
func NumericMeta(key string, value float64) CustomMetadata {
	return CustomMetadata{Key: key, NumericValue: &value}
}
