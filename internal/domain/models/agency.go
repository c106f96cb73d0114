package models

// Agency is a dealer/showroom in the network.
type Agency struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Location string `json:"location,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Status   string `json:"status,omitempty"`
}

// Staff is a sales person attached to an agency.
type Staff struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	AgencyID int64  `json:"agencyId"`
	Role     string `json:"role,omitempty"`
}
