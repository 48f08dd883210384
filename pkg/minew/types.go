package minew

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexibleID is a custom type that can unmarshal both string and number JSON
// values. The platform returns IDs as strings on most endpoints but as
// numbers on a few older ones.
type FlexibleID string

// UnmarshalJSON implements json.Unmarshaler interface.
func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	// Try to unmarshal as string first
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexibleID(s)
		return nil
	}

	// Try to unmarshal as number
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexibleID(strconv.FormatInt(n, 10))
		return nil
	}

	return fmt.Errorf("FlexibleID: cannot unmarshal %s", string(data))
}

// MarshalJSON implements json.Marshaler interface.
func (f FlexibleID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f))
}

// String returns the string representation of the ID.
func (f FlexibleID) String() string {
	return string(f)
}

// ================== Common Types ==================

// Page carries the pagination fields list endpoints return alongside their
// items.
type Page struct {
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalNum    int `json:"totalNum"`
	IsMore      int `json:"isMore"`
	TotalPage   int `json:"totalPage"`
	StartIndex  int `json:"startIndex"`
}

// Store active states.
const (
	// StoreClosed marks a store as inactive.
	StoreClosed = 0

	// StoreOpen marks a store as active.
	StoreOpen = 1
)

// Screening filters warning queries by event family.
type Screening string

const (
	// ScreeningBrush selects display refresh warnings.
	ScreeningBrush Screening = "brush"

	// ScreeningUpgrade selects firmware upgrade warnings.
	ScreeningUpgrade Screening = "upgrade"
)

// LED flash modes accepted by LabelService.Flash.
const (
	// FlashStatic lights the label LED steadily.
	FlashStatic = 0

	// FlashBlinking blinks the label LED.
	FlashBlinking = 1
)

// ================== Store Types ==================

// Store is a store record.
type Store struct {
	ID      FlexibleID `json:"id"`
	Name    string     `json:"name"`
	Number  string     `json:"number"`
	Address string     `json:"address"`
	Active  int        `json:"active"`
}

// Warning is a device warning raised within a store, such as a low battery
// or a failed refresh.
type Warning struct {
	ID        FlexibleID `json:"id"`
	Type      string     `json:"type"`
	Level     string     `json:"level"`
	Timestamp string     `json:"timestamp"`
}

// LogEntry is one operation log record. ActionType and Result arrive as
// numeric strings.
type LogEntry struct {
	Operator   string `json:"operator"`
	CreateTime string `json:"createTime"`
	ActionType string `json:"actionType"`
	Result     string `json:"result"`
}

// LogPage is one page of operation logs.
type LogPage struct {
	Page
	Items []LogEntry `json:"items"`
}

// LogQuery selects operation logs for StoreService.Logs.
type LogQuery struct {
	// StoreID is required.
	StoreID string `json:"storeId"`

	// CurrentPage and PageSize control pagination.
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`

	// ObjectType is required: "1" for labels, "5" for warning lights.
	ObjectType string `json:"objectType"`

	// ActionType is optional: "1" for refresh, "2" for upgrade.
	ActionType string `json:"actionType"`

	// Condition is an optional fuzzy filter, such as a MAC address.
	Condition string `json:"condition"`
}

// ================== Gateway Types ==================

// Gateway is a gateway record.
type Gateway struct {
	ID         FlexibleID `json:"id"`
	Name       string     `json:"name"`
	MAC        string     `json:"mac"`
	Mode       int        `json:"mode"`
	Hardware   string     `json:"hardware"`
	Firmware   string     `json:"firmware"`
	Product    string     `json:"product"`
	CreateTime string     `json:"createTime"`
	UpdateTime string     `json:"updateTime"`
}

// ================== Label Types ==================

// Label is an electronic shelf label record.
type Label struct {
	ID     FlexibleID `json:"id"`
	MAC    string     `json:"mac"`
	Name   string     `json:"name"`
	Status int        `json:"status"`
}

// LabelPage is one page of labels.
type LabelPage struct {
	Page
	Items []Label `json:"items"`
}

// ================== Template Types ==================

// Template is a display template record. Size is the screen size in inches
// as reported by the platform, for example "2.13".
type Template struct {
	ID    FlexibleID `json:"id"`
	Name  string     `json:"name"`
	Size  string     `json:"size"`
	Color string     `json:"color"`
}

// Template screening values for TemplateQuery.
const (
	// TemplateScreeningAll selects every template.
	TemplateScreeningAll = 0

	// TemplateScreeningSystem selects built-in system templates.
	TemplateScreeningSystem = 1
)

// TemplateQuery selects templates for TemplateService.List.
type TemplateQuery struct {
	// StoreID is required.
	StoreID string

	// Page and Size control pagination.
	Page int
	Size int

	// Screening is TemplateScreeningAll for every template,
	// TemplateScreeningSystem for system templates, any other value for
	// store templates.
	Screening int

	// Inch filters by screen size when non-zero.
	Inch float64

	// Color filters by color scheme when set, for example "BWR".
	Color string

	// Fuzzy is an optional fuzzy name filter.
	Fuzzy string
}

// ================== Data Types ==================

// Product is a free-form product record. The platform does not impose a
// field schema; whatever fields were uploaded come back unchanged.
type Product map[string]any

// DataPage is one page of product data records.
type DataPage struct {
	Page
	Items []Product `json:"items"`
}
