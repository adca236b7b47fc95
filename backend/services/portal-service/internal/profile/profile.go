// Package profile serves the static account card and menu.
package profile

import (
	"context"

	"go.uber.org/zap"
)

// MenuItem is one entry of the profile menu.
type MenuItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Route string `json:"route"`
}

// User is the account card shown on top of the profile.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Profile is the full profile page payload.
type Profile struct {
	User User       `json:"user"`
	Menu []MenuItem `json:"menu"`
}

// Menu lists the profile destinations in display order.
var Menu = []MenuItem{
	{ID: "bookings", Label: "My Bookings", Route: "/bookings"},
	{ID: "payments", Label: "Saved Cards & Payments", Route: "/payments"},
	{ID: "preferences", Label: "Preferences", Route: "/preferences"},
	{ID: "referrals", Label: "Invite Friends & Earn", Route: "/referrals"},
	{ID: "help", Label: "Help & Support", Route: "/help"},
	{ID: "about", Label: "About Charginguu", Route: "/about"},
}

// Service answers profile requests. There is no account system behind it.
type Service struct {
	user   User
	logger *zap.Logger
}

// NewService returns service for a fixed user.
func NewService(user User, logger *zap.Logger) *Service {
	return &Service{user: user, logger: logger}
}

// Get returns the profile page.
func (s *Service) Get(_ context.Context) Profile {
	menu := make([]MenuItem, len(Menu))
	copy(menu, Menu)
	return Profile{User: s.user, Menu: menu}
}

// Logout records the request.
func (s *Service) Logout(_ context.Context) {
	s.logger.Info("user logged out", zap.String("email", s.user.Email))
}
