package projects

import "time"

const (
	LayoutLandscape = "landscape"
	LayoutPortrait  = "portrait"

	// MaxFeatured bounds the landing page SELECTED WORKS set.
	MaxFeatured = 4
	// MaxImages bounds a project's image list. Exceeding it is rejected,
	// never truncated.
	MaxImages = 10
)

// DefaultOrderIndex sorts projects without an explicit position after
// everything that has one.
const DefaultOrderIndex = 1 << 30

type ExternalContent struct {
	ProjectName      string   `bson:"projectName" json:"projectName"`
	ClientName       string   `bson:"clientName" json:"clientName"`
	ShortDescription string   `bson:"shortDescription" json:"shortDescription"`
	Highlights       []string `bson:"highlights" json:"highlights"`
	Tag              string   `bson:"tag" json:"tag"`
}

type Project struct {
	ID                string          `bson:"_id,omitempty" json:"id"`
	CategoryID        string          `bson:"category_id" json:"category_id"`
	Title             string          `bson:"title" json:"title"`
	Location          string          `bson:"location" json:"location"`
	Area              string          `bson:"area" json:"area"`
	Type              string          `bson:"type" json:"type"`
	Year              string          `bson:"year" json:"year"`
	ExternalContent   ExternalContent `bson:"external_content" json:"external_content"`
	Images            []string        `bson:"images" json:"images"`
	Layout            string          `bson:"layout" json:"layout"`
	OrderIndex        int             `bson:"order_index" json:"order_index"`
	IsFeatured        bool            `bson:"is_featured" json:"is_featured"`
	HomeOrder         *int            `bson:"home_order" json:"home_order"`
	InternalContentID string          `bson:"internal_content_id" json:"internal_content_id"`
	CreatedAt         time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `bson:"updated_at" json:"updated_at"`
}

type UpsertRequest struct {
	CategoryID        string          `json:"category_id"`
	Title             string          `json:"title" validate:"required"`
	Location          string          `json:"location"`
	Area              string          `json:"area"`
	Type              string          `json:"type"`
	Year              string          `json:"year"`
	ExternalContent   ExternalContent `json:"external_content"`
	Images            []string        `json:"images" validate:"omitempty,dive,url"`
	Layout            string          `json:"layout" validate:"required,layout"`
	OrderIndex        *int            `json:"order_index" validate:"omitempty,gte=0"`
	InternalContentID string          `json:"internal_content_id"`
}

type ReorderRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

type AppendImageRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type ListFilter struct {
	CategoryID   string
	CategorySlug string
	Limit        int64
	Offset       int64
}
