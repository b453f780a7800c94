package domain

type HotelSort string

const (
	SortRating    HotelSort = "rating"
	SortPriceAsc  HotelSort = "price_asc"
	SortPriceDesc HotelSort = "price_desc"
	SortName      HotelSort = "name"
)

// ParseHotelSort falls back to rating order for unknown keys.
func ParseHotelSort(s string) HotelSort {
	switch HotelSort(s) {
	case SortPriceAsc, SortPriceDesc, SortName:
		return HotelSort(s)
	}
	return SortRating
}

// HotelSearch holds the optional predicates of a hotel search. Zero-valued
// strings and nil pointers are not applied.
type HotelSearch struct {
	City       string
	State      string
	Country    string
	PostalCode string
	MinStars   *int
	MaxStars   *int
	MinPrice   *Money
	MaxPrice   *Money
	Guests     *int
	Sort       HotelSort
	Page       PageRequest
}

type HotelSummary struct {
	ID            int64  `json:"id"`
	Name          string `json:"hotelName"`
	Description   string `json:"description"`
	City          string `json:"city"`
	State         string `json:"state"`
	Country       string `json:"country"`
	PostalCode    string `json:"postalCode"`
	StarRating    int    `json:"starRating"`
	MinPrice      Money  `json:"minPrice"`
	MaxCapacity   int    `json:"maxCapacity"`
	RoomTypeCount int    `json:"roomTypeCount"`
}

type HotelSearchResult struct {
	Data       []HotelSummary `json:"data"`
	Pagination Pagination     `json:"pagination"`
	Cities     []string       `json:"cities"`
}

type HotelDetail struct {
	HotelProfile
	RoomTypes []RoomType `json:"roomTypes"`
}

// RoomQuote is an active room type priced for a dated stay.
// AvailableRooms is derived from capacity; no per-night inventory is kept.
type RoomQuote struct {
	RoomType
	AvailableRooms int   `json:"availableRooms"`
	QuotedPrice    Money `json:"quotedPrice"`
	Nights         int   `json:"nights"`
	EstimatedTotal Money `json:"estimatedTotal"`
}

// Stats are the aggregate counters shown to administrators.
type Stats struct {
	Accounts         int64                   `json:"totalUsers"`
	Hotels           int64                   `json:"totalHotels"`
	Corporates       int64                   `json:"totalCorporates"`
	ActiveRoomTypes  int64                   `json:"activeRoomTypes"`
	ActivePosts      int64                   `json:"activePosts"`
	BookingsByStatus map[BookingStatus]int64 `json:"bookingsByStatus"`
	ConfirmedRevenue Money                   `json:"confirmedRevenue"`
}
