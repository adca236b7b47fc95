// Package spot models the "add charging spot" listing form.
package spot

// Option is one selectable catalog entry.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// PlugTypes a spot can offer.
var PlugTypes = []Option{
	{ID: "usb-a", Label: "USB-A"},
	{ID: "usb-c", Label: "USB-C"},
	{ID: "micro-usb", Label: "Micro-USB"},
	{ID: "lightning", Label: "Lightning"},
	{ID: "wall-outlet", Label: "Wall Outlet"},
}

// Amenities a spot can list.
var Amenities = []Option{
	{ID: "wifi", Label: "Wi-Fi"},
	{ID: "seating", Label: "Seating"},
	{ID: "ac", Label: "Air Conditioning"},
	{ID: "restroom", Label: "Restroom"},
	{ID: "parking", Label: "Parking"},
	{ID: "cafe", Label: "Cafe"},
	{ID: "security", Label: "Security"},
	{ID: "waiting-area", Label: "Waiting Area"},
}

// Days are the operating-hours keys, Monday first.
var Days = []Option{
	{ID: "monday", Label: "Monday"},
	{ID: "tuesday", Label: "Tuesday"},
	{ID: "wednesday", Label: "Wednesday"},
	{ID: "thursday", Label: "Thursday"},
	{ID: "friday", Label: "Friday"},
	{ID: "saturday", Label: "Saturday"},
	{ID: "sunday", Label: "Sunday"},
}

func contains(options []Option, id string) bool {
	for _, o := range options {
		if o.ID == id {
			return true
		}
	}
	return false
}
