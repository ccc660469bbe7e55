package domain

type CartItem struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int32  `json:"quantity"`
	ImageUrl string `json:"image,omitempty"`
	Artist   string `json:"artist,omitempty"`
	Category string `json:"category,omitempty"`
}
