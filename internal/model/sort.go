package model

import (
	"strconv"

	"hermannm.dev/enumnames"
)

type SortField int8

const (
	SortFieldQuery SortField = iota + 1
	SortFieldClicks
	SortFieldImpressions
	SortFieldCTR
	SortFieldPosition
)

var sortFieldMap = enumnames.NewMap(map[SortField]string{
	SortFieldQuery:       "query",
	SortFieldClicks:      "clicks",
	SortFieldImpressions: "impressions",
	SortFieldCTR:         "ctr",
	SortFieldPosition:    "position",
})

// SortFields lists the table columns in display order.
var SortFields = []SortField{
	SortFieldQuery,
	SortFieldClicks,
	SortFieldImpressions,
	SortFieldCTR,
	SortFieldPosition,
}

const invalidSortField = "INVALID_SORT_FIELD"

func (field SortField) IsValid() bool {
	return sortFieldMap.GetNameOrFallback(field, invalidSortField) != invalidSortField
}

func (field SortField) String() string {
	return sortFieldMap.GetNameOrFallback(field, invalidSortField)
}

func (field SortField) MarshalJSON() ([]byte, error) {
	return sortFieldMap.MarshalToNameJSON(field)
}

func (field *SortField) UnmarshalJSON(bytes []byte) error {
	return sortFieldMap.UnmarshalFromNameJSON(bytes, field)
}

// ParseSortField maps a column name such as "ctr" to its SortField.
func ParseSortField(name string) (SortField, bool) {
	var field SortField
	if err := field.UnmarshalJSON([]byte(strconv.Quote(name))); err != nil {
		return 0, false
	}
	return field, field.IsValid()
}

type SortDirection int8

const (
	SortAscending SortDirection = iota + 1
	SortDescending
)

var sortDirectionMap = enumnames.NewMap(map[SortDirection]string{
	SortAscending:  "asc",
	SortDescending: "desc",
})

func (direction SortDirection) String() string {
	return sortDirectionMap.GetNameOrFallback(direction, "INVALID_SORT_DIRECTION")
}

func (direction SortDirection) MarshalJSON() ([]byte, error) {
	return sortDirectionMap.MarshalToNameJSON(direction)
}

func (direction *SortDirection) UnmarshalJSON(bytes []byte) error {
	return sortDirectionMap.UnmarshalFromNameJSON(bytes, direction)
}

// Flip returns the opposite direction.
func (direction SortDirection) Flip() SortDirection {
	if direction == SortAscending {
		return SortDescending
	}
	return SortAscending
}
