package dto

type ShopInfoRequest struct {
	ShopName *string `json:"shopName" validate:"omitempty,min=1,max=100"`
	Country  *string `json:"country" validate:"omitempty,min=1,max=100"`
	City     *string `json:"city" validate:"omitempty,min=1,max=100"`
}

type PaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required"`
}
