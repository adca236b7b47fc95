package spot

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	MinPorts  = 1
	MaxPorts  = 20
	MaxPhotos = 5
)

var (
	ErrUnknownOption = errors.New("spot: unknown option")
	ErrUnknownDay    = errors.New("spot: unknown day")
	ErrInvalidTime   = errors.New("spot: time must be HH:MM")
	ErrTooManyPhotos = errors.New("spot: maximum 5 photos allowed")
)

// Hours is one day's opening window. Times are 24h HH:MM.
type Hours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed"`
}

// Photo references an uploaded image. Upload itself happens elsewhere.
type Photo struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Form is the listing being composed.
type Form struct {
	SpotName         string           `json:"spotName"`
	Location         string           `json:"location"`
	Latitude         *float64         `json:"latitude,omitempty"`
	Longitude        *float64         `json:"longitude,omitempty"`
	PlugTypes        []string         `json:"plugTypes"`
	NumberOfPorts    int              `json:"numberOfPorts"`
	PricingPerMinute float64          `json:"pricingPerMinute"`
	OperatingHours   map[string]Hours `json:"operatingHours"`
	Amenities        []string         `json:"amenities"`
	Photos           []Photo          `json:"photos"`
	Description      string           `json:"description"`
}

// NewForm returns an empty form with one port and all days unset.
func NewForm() *Form {
	hours := make(map[string]Hours, len(Days))
	for _, d := range Days {
		hours[d.ID] = Hours{}
	}
	return &Form{NumberOfPorts: MinPorts, OperatingHours: hours}
}

// SetPorts clamps n into MinPorts..MaxPorts.
func (f *Form) SetPorts(n int) {
	switch {
	case n < MinPorts:
		n = MinPorts
	case n > MaxPorts:
		n = MaxPorts
	}
	f.NumberOfPorts = n
}

func (f *Form) IncrementPorts() { f.SetPorts(f.NumberOfPorts + 1) }
func (f *Form) DecrementPorts() { f.SetPorts(f.NumberOfPorts - 1) }

// TogglePlugType adds or removes a plug type.
func (f *Form) TogglePlugType(id string, on bool) error {
	if !contains(PlugTypes, id) {
		return fmt.Errorf("%w: plug type %q", ErrUnknownOption, id)
	}
	f.PlugTypes = toggle(f.PlugTypes, id, on)
	return nil
}

// ToggleAmenity adds or removes an amenity.
func (f *Form) ToggleAmenity(id string, on bool) error {
	if !contains(Amenities, id) {
		return fmt.Errorf("%w: amenity %q", ErrUnknownOption, id)
	}
	f.Amenities = toggle(f.Amenities, id, on)
	return nil
}

// SetHours replaces one day's window.
func (f *Form) SetHours(day string, h Hours) error {
	if !contains(Days, day) {
		return fmt.Errorf("%w: %q", ErrUnknownDay, day)
	}
	for _, t := range []string{h.Open, h.Close} {
		if t != "" && !validClock(t) {
			return fmt.Errorf("%w: %q", ErrInvalidTime, t)
		}
	}
	if f.OperatingHours == nil {
		f.OperatingHours = map[string]Hours{}
	}
	f.OperatingHours[day] = h
	return nil
}

// AddPhotos appends photos, rejecting the whole batch if it would exceed MaxPhotos.
func (f *Form) AddPhotos(photos ...Photo) error {
	if len(f.Photos)+len(photos) > MaxPhotos {
		return ErrTooManyPhotos
	}
	f.Photos = append(f.Photos, photos...)
	return nil
}

// RemovePhoto drops the photo with id and reports whether it was present.
func (f *Form) RemovePhoto(id string) bool {
	for i, p := range f.Photos {
		if p.ID == id {
			f.Photos = append(f.Photos[:i], f.Photos[i+1:]...)
			return true
		}
	}
	return false
}

// ApplyLocation copies a picked location into the form.
func (f *Form) ApplyLocation(loc Location) {
	lat, lng := loc.Latitude, loc.Longitude
	f.Location = loc.Address
	f.Latitude = &lat
	f.Longitude = &lng
}

// Validate returns field → message for every problem.
func Validate(f Form) map[string]string {
	errs := map[string]string{}

	if strings.TrimSpace(f.SpotName) == "" {
		errs["spotName"] = "Spot name is required"
	}
	if strings.TrimSpace(f.Location) == "" {
		errs["location"] = "Location is required"
	}
	if len(f.PlugTypes) == 0 {
		errs["plugTypes"] = "Select at least one plug type"
	} else {
		for _, p := range f.PlugTypes {
			if !contains(PlugTypes, p) {
				errs["plugTypes"] = fmt.Sprintf("Unknown plug type %q", p)
				break
			}
		}
	}
	for _, a := range f.Amenities {
		if !contains(Amenities, a) {
			errs["amenities"] = fmt.Sprintf("Unknown amenity %q", a)
			break
		}
	}
	if f.NumberOfPorts < MinPorts || f.NumberOfPorts > MaxPorts {
		errs["numberOfPorts"] = fmt.Sprintf("Number of ports must be between %d and %d", MinPorts, MaxPorts)
	}
	if f.PricingPerMinute <= 0 {
		errs["pricingPerMinute"] = "Valid pricing is required"
	}
	if len(f.Photos) > MaxPhotos {
		errs["photos"] = fmt.Sprintf("Maximum %d photos allowed", MaxPhotos)
	}
	if msg := hoursError(f.OperatingHours); msg != "" {
		errs["operatingHours"] = msg
	}
	return errs
}

func hoursError(hours map[string]Hours) string {
	open := false
	for day, h := range hours {
		if !contains(Days, day) {
			return fmt.Sprintf("Unknown day %q", day)
		}
		if (h.Open != "" && !validClock(h.Open)) || (h.Close != "" && !validClock(h.Close)) {
			return "Operating hours must use HH:MM"
		}
		if !h.Closed && h.Open != "" && h.Close != "" {
			open = true
		}
	}
	if !open {
		return "Set operating hours for at least one day"
	}
	return ""
}

func validClock(v string) bool {
	_, err := time.Parse("15:04", v)
	return err == nil
}

func toggle(list []string, id string, on bool) []string {
	out := list[:0:0]
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	if on {
		out = append(out, id)
	}
	return out
}

// ValidationError carries every failing field of a rejected form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("spot: %d invalid field(s)", len(e.Fields))
}

// Check is Validate as an error.
func Check(f Form) error {
	if errs := Validate(f); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
