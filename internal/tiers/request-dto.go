package tiers

type CreateTierRequest struct {
	Name       string `json:"name" binding:"required,min=1,max=100"`
	Code       string `json:"code" binding:"required,min=1,max=100"`
	Currency   string `json:"currency" binding:"required,len=3"`
	PriceMinor int64  `json:"price_minor" binding:"required,gt=0"`
	SortOrder  int    `json:"sort_order" binding:"omitempty,gte=0"`
}

type UpdateTierRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=1,max=100"`
	PriceMinor *int64  `json:"price_minor" binding:"omitempty,gt=0"`
	SortOrder  *int    `json:"sort_order" binding:"omitempty,gte=0"`
	IsActive   *bool   `json:"is_active"`
}

type TierListQuery struct {
	IsActive *bool `form:"is_active"`
	Page     int   `form:"page" binding:"omitempty,gte=1"`
	Limit    int   `form:"limit" binding:"omitempty,gte=1,lte=100"`
}
