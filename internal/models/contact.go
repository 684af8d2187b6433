package models

// ContactInfo is the owner contact snapshot disclosed on request.
// Available is false when the gate returned nothing.
type ContactInfo struct {
	OwnerName    *string `json:"owner_name"`
	OwnerPhone   *string `json:"owner_phone"`
	OwnerEmail   *string `json:"owner_email"`
	OwnerAddress *string `json:"owner_address"`
	Available    bool    `json:"available"`
}
