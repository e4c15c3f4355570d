package sitecontent

import "time"

// ContactInfo is a singleton record. Reads tolerate the row not existing
// yet; writes overlay only the fields present in the patch.
type ContactInfo struct {
	ID                          string    `bson:"_id,omitempty" json:"id,omitempty"`
	Email                       string    `bson:"email" json:"email"`
	Hotline                     string    `bson:"hotline" json:"hotline"`
	BusinessRegistrationAddress string    `bson:"business_registration_address" json:"business_registration_address"`
	OfficeAddress               string    `bson:"office_address" json:"office_address"`
	GoogleMapURL                string    `bson:"google_map_url" json:"google_map_url"`
	UpdatedAt                   time.Time `bson:"updated_at" json:"updated_at"`
}

// ContactPatch carries only the fields an admin form actually submitted.
// Nil means "leave the stored value alone".
type ContactPatch struct {
	Email                       *string `json:"email" validate:"omitempty,email"`
	Hotline                     *string `json:"hotline"`
	BusinessRegistrationAddress *string `json:"business_registration_address"`
	OfficeAddress               *string `json:"office_address"`
	GoogleMapURL                *string `json:"google_map_url" validate:"omitempty,url"`
}

type HistoryEntry struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Year        string    `bson:"year" json:"year"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	OrderIndex  int       `bson:"order_index" json:"order_index"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

type HistoryRequest struct {
	Year        string `json:"year" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	OrderIndex  *int   `json:"order_index" validate:"omitempty,gte=0"`
}

type TrustedPartner struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	Name       string    `bson:"name" json:"name"`
	LogoURL    string    `bson:"logo_url" json:"logo_url"`
	WebsiteURL string    `bson:"website_url" json:"website_url"`
	OrderIndex int       `bson:"order_index" json:"order_index"`
	IsActive   bool      `bson:"is_active" json:"is_active"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}

type TrustedPartnerRequest struct {
	Name       string `json:"name" validate:"required"`
	LogoURL    string `json:"logo_url" validate:"required,url"`
	WebsiteURL string `json:"website_url" validate:"omitempty,url"`
	OrderIndex *int   `json:"order_index" validate:"omitempty,gte=0"`
	IsActive   *bool  `json:"is_active"`
}

type AboutImage struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	Title      string    `bson:"title" json:"title"`
	ImageURL   string    `bson:"image_url" json:"image_url"`
	OrderIndex int       `bson:"order_index" json:"order_index"`
	IsActive   bool      `bson:"is_active" json:"is_active"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}

type AboutImageRequest struct {
	Title      string `json:"title"`
	ImageURL   string `json:"image_url" validate:"required,url"`
	OrderIndex *int   `json:"order_index" validate:"omitempty,gte=0"`
	IsActive   *bool  `json:"is_active"`
}

type DownloadProfile struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	FileName    string    `bson:"file_name" json:"file_name"`
	FileURL     string    `bson:"file_url" json:"file_url"`
	FileSize    int64     `bson:"file_size" json:"file_size"`
	FileType    string    `bson:"file_type" json:"file_type"`
	OrderIndex  int       `bson:"order_index" json:"order_index"`
	IsActive    bool      `bson:"is_active" json:"is_active"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

type DownloadProfileRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	FileName    string `json:"file_name" validate:"required"`
	FileURL     string `json:"file_url" validate:"required,url"`
	FileSize    int64  `json:"file_size" validate:"gte=0"`
	FileType    string `json:"file_type"`
	OrderIndex  *int   `json:"order_index" validate:"omitempty,gte=0"`
	IsActive    *bool  `json:"is_active"`
}
