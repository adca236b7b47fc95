package spot

import "context"

// Location is a resolved map pick.
type Location struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Locator resolves the location a host picked on the map.
type Locator interface {
	Locate(ctx context.Context) (Location, error)
}

// FixedLocator always answers with the same location.
type FixedLocator struct {
	Location Location
}

// NewSimulatedLocator returns the demo pick used until a maps provider is integrated.
func NewSimulatedLocator() *FixedLocator {
	return &FixedLocator{Location: Location{
		Address:   "123 Main Street, Business District, City - 560001",
		Latitude:  12.9716,
		Longitude: 77.5946,
	}}
}

func (l *FixedLocator) Locate(ctx context.Context) (Location, error) {
	if err := ctx.Err(); err != nil {
		return Location{}, err
	}
	return l.Location, nil
}
