package categories

import "time"

const (
	DisplayGrid1 = "grid-1"
	DisplayGrid2 = "grid-2"
	DisplayGrid3 = "grid-3"
)

type Category struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Slug        string    `bson:"slug" json:"slug"`
	DisplayType string    `bson:"display_type" json:"display_type"`
	OrderIndex  int       `bson:"order_index" json:"order_index"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

type UpsertRequest struct {
	Name        string `json:"name" validate:"required"`
	Slug        string `json:"slug" validate:"omitempty,slug"`
	DisplayType string `json:"display_type" validate:"required,displaytype"`
	OrderIndex  *int   `json:"order_index" validate:"omitempty,gte=0"`
}

type ReorderRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

type DeleteResult struct {
	UnlinkedProjects int64 `json:"unlinked_projects"`
}
