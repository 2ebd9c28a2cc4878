package models

// Order is one historical order as returned by the delivery platform's
// order-history endpoint. Most fields are optional and several concepts are
// sent under more than one name, so every numeric field is an *Amount and
// absent fields stay absent when the order is encoded again.
type Order struct {
	ID                     FlexString  `json:"order_id"`
	OrderTime              FlexString  `json:"order_time"`
	OrderTotal             *Amount     `json:"order_total,omitempty"`
	RestaurantName         FlexString  `json:"restaurant_name,omitempty"`
	RestaurantID           FlexString  `json:"restaurant_id,omitempty"`
	RestaurantCuisine      *Cuisine    `json:"restaurant_cuisine,omitempty"`
	RestaurantArea         string      `json:"restaurant_area_name,omitempty"`
	RestaurantCity         string      `json:"restaurant_city_name,omitempty"`
	Items                  []OrderItem `json:"order_items,omitempty"`
	DeliveryCharge         *Amount     `json:"order_delivery_charge,omitempty"`
	DiscountedDeliveryFee  *Amount     `json:"discounted_total_delivery_fee,omitempty"`
	DeliveryFee            *Amount     `json:"delivery_fee,omitempty"`
	OrderDiscount          *Amount     `json:"order_discount,omitempty"`
	OrderDiscountEffective *Amount     `json:"order_discount_effective,omitempty"`
	CouponDiscount         *Amount     `json:"coupon_discount,omitempty"`
	Discount               *Amount     `json:"discount,omitempty"`
	CouponCode             string      `json:"coupon_code,omitempty"`
	PaymentMethod          string      `json:"payment_method,omitempty"`
	DeliveryStatus         string      `json:"order_delivery_status,omitempty"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	Name       FlexString `json:"name"`
	Quantity   *Amount    `json:"quantity,omitempty"`
	Total      *Amount    `json:"total,omitempty"`
	Subtotal   *Amount    `json:"subtotal,omitempty"`
	FinalPrice *Amount    `json:"final_price,omitempty"`
	IsVeg      *Amount    `json:"is_veg,omitempty"`
}

// OrdersResponse is the envelope of one order-history page.
type OrdersResponse struct {
	StatusCode    int    `json:"statusCode"`
	StatusMessage string `json:"statusMessage,omitempty"`
	Data          *struct {
		Orders      []Order `json:"orders"`
		TotalOrders int     `json:"total_orders,omitempty"`
		HasMore     bool    `json:"hasMore,omitempty"`
	} `json:"data,omitempty"`
}

// AuthResponse is the envelope of the OTP endpoints.
type AuthResponse struct {
	StatusCode    int            `json:"statusCode"`
	StatusMessage string         `json:"statusMessage,omitempty"`
	Data          map[string]any `json:"data,omitempty"`
}
