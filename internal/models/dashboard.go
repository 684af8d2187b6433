package models

// ListingStats counts listings by status
type ListingStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Active   int `json:"active"`
}

// UserStats counts profiles by role
type UserStats struct {
	Total  int `json:"total"`
	Owners int `json:"owners"`
	Admins int `json:"admins"`
}

// DashboardSummary is role specific: only the section for the caller's
// role is populated.
type DashboardSummary struct {
	Role string `json:"role"`

	// tenant
	AvailableListings int `json:"available_listings,omitempty"`
	Cities            int `json:"cities,omitempty"`

	// owner and admin
	Listings *ListingStats `json:"listings,omitempty"`

	// admin
	Users *UserStats `json:"users,omitempty"`
}
