package layouts

type CreateLayoutRequest struct {
	Name      string                 `json:"name" binding:"required,min=1,max=200"`
	VenueName string                 `json:"venue_name" binding:"omitempty,max=200"`
	Sections  []CreateSectionRequest `json:"sections" binding:"omitempty,dive"`
}

type CreateSectionRequest struct {
	Label         string             `json:"label" binding:"required,min=1,max=50"`
	SortOrder     int                `json:"sort_order" binding:"omitempty,gte=0"`
	DefaultTierID *string            `json:"default_tier_id" binding:"omitempty,uuid"`
	Rows          []CreateRowRequest `json:"rows" binding:"omitempty,dive"`
}

type CreateRowRequest struct {
	Label     string              `json:"label" binding:"required,min=1,max=50"`
	SortOrder int                 `json:"sort_order" binding:"omitempty,gte=0"`
	Seats     []CreateSeatRequest `json:"seats" binding:"omitempty,dive"`
}

type CreateSeatRequest struct {
	Label       string  `json:"label" binding:"required,min=1,max=50"`
	SeatType    string  `json:"seat_type" binding:"omitempty,oneof=standard accessible obstructed unusable"`
	PriceTierID *string `json:"price_tier_id" binding:"omitempty,uuid"`
	PosX        int     `json:"pos_x"`
	PosY        int     `json:"pos_y"`
}

type UpdateLayoutRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=200"`
	VenueName *string `json:"venue_name" binding:"omitempty,max=200"`
}

type CloneLayoutRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
}

type LayoutListQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
	Page   int    `form:"page" binding:"omitempty,gte=1"`
	Limit  int    `form:"limit" binding:"omitempty,gte=1,lte=100"`
}
