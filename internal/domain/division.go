package domain

// Division is one administrative unit (province, district, sector or cell).
// Lists of divisions are always ordered as in the source data; menu option
// numbers are derived from that order.
type Division struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
