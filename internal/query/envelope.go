package query

import (
	"github.com/rvegajr/ez-api-mocker-sub000/internal/entity"
)

// Envelope is the wrapper object a query produces, serialized as
//
//	{"@odata.context"?: ..., "value": [...], "@odata.count"?: n, "@odata.nextLink"?: ...}
//
// Value is never null: an empty result serializes as "value": [].
type Envelope struct {
	Context  string           `json:"@odata.context,omitempty"`
	Value    []*entity.Object `json:"value"`
	Count    *int             `json:"@odata.count,omitempty"`
	NextLink string           `json:"@odata.nextLink,omitempty"`
}
