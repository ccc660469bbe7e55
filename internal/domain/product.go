package domain

import "time"

type ProductFormat string

const (
	FormatVinylLP     ProductFormat = "VINYL_LP"
	FormatVinylSingle ProductFormat = "VINYL_SINGLE"
	FormatCDAlbum     ProductFormat = "CD_ALBUM"
	FormatCassette    ProductFormat = "CASSETTE"
)

type ProductCondition string

const (
	ConditionSealed   ProductCondition = "SEALED"
	ConditionNearMint ProductCondition = "NEAR_MINT"
	ConditionVeryGood ProductCondition = "VERY_GOOD"
	ConditionGood     ProductCondition = "GOOD"
)

type Product struct {
	ID          int64            `json:"id"`
	SKU         string           `json:"sku"`
	Slug        string           `json:"slug"`
	Name        string           `json:"name"`
	Artist      string           `json:"artist"`
	Description string           `json:"description"`
	Price       int64            `json:"price"`
	ImageUrl    string           `json:"image"`
	Category    string           `json:"category"`
	Format      ProductFormat    `json:"format"`
	Condition   ProductCondition `json:"condition"`
	Stock       int64            `json:"stock"`
	MinStock    int64            `json:"minStock"`
	ReleaseYear int32            `json:"releaseYear"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	DeletedAt   *time.Time       `json:"-"`
}

// ProductFilter is applied as filter -> sort -> paginate, in that order.
type ProductFilter struct {
	Search    string
	Format    string
	Condition string
	MinPrice  *int64
	MaxPrice  *int64
	Sort      string
	Page      int64
	Limit     int64
}

type Pagination struct {
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

type ProductPage struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

type UpdateProductInput struct {
	Name        *string `json:"name"`
	Artist      *string `json:"artist"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
	Stock       *int64  `json:"stock"`
	MinStock    *int64  `json:"min_stock"`
	ImageUrl    *string `json:"image"`
	Category    *string `json:"category"`
}
