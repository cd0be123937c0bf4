package transport

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Pincode  string `json:"pincode"`
	Bio      string `json:"bio"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProfileUpdateRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	Pincode *string `json:"pincode"`
	Bio     *string `json:"bio"`
}

type FoodCreateRequest struct {
	Title               string `json:"title"`
	Quantity            string `json:"quantity"`
	Location            string `json:"location"`
	ExpiryTime          string `json:"expiry_time"`
	Description         string `json:"description"`
	Image               string `json:"image"`
	PickupLocation      string `json:"pickup_location"`
	SpecialInstructions string `json:"special_instructions"`
}

type FoodUpdateRequest struct {
	Title               *string `json:"title"`
	Quantity            *string `json:"quantity"`
	Location            *string `json:"location"`
	ExpiryTime          *string `json:"expiry_time"`
	Description         *string `json:"description"`
	Image               *string `json:"image"`
	PickupLocation      *string `json:"pickup_location"`
	SpecialInstructions *string `json:"special_instructions"`
}
