package nemo

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Record is one form response exactly as returned by the OData API. Field
// order follows the response body. Values are the decoded JSON variants:
// string, float64, bool, nil, []any or a nested map[string]any.
type Record = *orderedmap.OrderedMap[string, any]

// NewRecord returns an empty Record.
func NewRecord() Record {
	return orderedmap.New[string, any]()
}

// responsesBody is the OData envelope around the response records.
type responsesBody struct {
	Value *[]Record `json:"value"`
}
