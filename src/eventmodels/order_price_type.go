package eventmodels

type OrderPriceType string

const (
	OrderPriceTypeLimit  OrderPriceType = "limit"
	OrderPriceTypeMarket OrderPriceType = "market"
)
