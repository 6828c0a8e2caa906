package graphql

import (
	"context"
	"net/url"
	"strings"

	graphqlgo "github.com/graph-gophers/graphql-go"

	"github.com/3a-softwares/E-Storefront-Services/client"
)

// defaultOrderStatus covers documents predating the status fields.
const defaultOrderStatus = "PENDING"

type wireOrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int32   `json:"quantity"`
	Price     float64 `json:"price"`
}

type wireShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type wireOrder struct {
	wireID
	OrderNumber     string               `json:"orderNumber"`
	CustomerID      string               `json:"customerId"`
	SellerID        string               `json:"sellerId"`
	Items           []wireOrderItem      `json:"items"`
	TotalAmount     float64              `json:"totalAmount"`
	OrderStatus     string               `json:"orderStatus"`
	LegacyStatus    string               `json:"status"`
	PaymentStatus   string               `json:"paymentStatus"`
	ShippingAddress *wireShippingAddress `json:"shippingAddress"`
	CreatedAt       wireTime             `json:"createdAt"`
	UpdatedAt       wireTime             `json:"updatedAt"`
}

// OrderResolver normalizes one downstream order document.
type OrderResolver struct {
	o wireOrder
}

func (r *OrderResolver) ID() graphqlgo.ID     { return graphqlgo.ID(r.o.value()) }
func (r *OrderResolver) OrderNumber() *string { return optString(r.o.OrderNumber) }
func (r *OrderResolver) CustomerId() *string  { return optString(r.o.CustomerID) }
func (r *OrderResolver) SellerId() *string    { return optString(r.o.SellerID) }
func (r *OrderResolver) TotalAmount() float64 { return r.o.TotalAmount }
func (r *OrderResolver) CreatedAt() *string   { return optTime(r.o.CreatedAt) }
func (r *OrderResolver) UpdatedAt() *string   { return optTime(r.o.UpdatedAt) }

// OrderStatus normalizes to uppercase, falling back to the legacy status
// field and defaulting to PENDING for documents that carry neither.
func (r *OrderResolver) OrderStatus() string {
	s := r.o.OrderStatus
	if s == "" {
		s = r.o.LegacyStatus
	}
	if s == "" {
		return defaultOrderStatus
	}
	return strings.ToUpper(s)
}

func (r *OrderResolver) PaymentStatus() string {
	if r.o.PaymentStatus == "" {
		return defaultOrderStatus
	}
	return strings.ToUpper(r.o.PaymentStatus)
}

func (r *OrderResolver) Items() []*OrderItemResolver {
	items := make([]*OrderItemResolver, 0, len(r.o.Items))
	for _, it := range r.o.Items {
		items = append(items, &OrderItemResolver{it: it})
	}
	return items
}

func (r *OrderResolver) ShippingAddress() *ShippingAddressResolver {
	if r.o.ShippingAddress == nil {
		return nil
	}
	return &ShippingAddressResolver{a: *r.o.ShippingAddress}
}

// OrderItemResolver is one line item inside an order.
type OrderItemResolver struct {
	it wireOrderItem
}

func (r *OrderItemResolver) ProductId() *string { return optString(r.it.ProductID) }
func (r *OrderItemResolver) Name() *string      { return optString(r.it.Name) }
func (r *OrderItemResolver) Quantity() int32    { return r.it.Quantity }
func (r *OrderItemResolver) Price() float64     { return r.it.Price }

// ShippingAddressResolver is the order's destination.
type ShippingAddressResolver struct {
	a wireShippingAddress
}

func (r *ShippingAddressResolver) Street() *string  { return optString(r.a.Street) }
func (r *ShippingAddressResolver) City() *string    { return optString(r.a.City) }
func (r *ShippingAddressResolver) State() *string   { return optString(r.a.State) }
func (r *ShippingAddressResolver) ZipCode() *string { return optString(r.a.ZipCode) }
func (r *ShippingAddressResolver) Country() *string { return optString(r.a.Country) }

// OrderPageResolver is one page of orders plus pagination.
type OrderPageResolver struct {
	orders   []*OrderResolver
	pageInfo PageInfo
}

func (r *OrderPageResolver) Orders() []*OrderResolver { return r.orders }
func (r *OrderPageResolver) Pagination() PageInfo     { return r.pageInfo }

// CreateOrderResultResolver covers both downstream shapes: a single created
// order or a per-seller split into several.
type CreateOrderResultResolver struct {
	order   *OrderResolver
	orders  []*OrderResolver
	count   int32
	message string
}

func (r *CreateOrderResultResolver) Order() *OrderResolver    { return r.order }
func (r *CreateOrderResultResolver) Orders() []*OrderResolver { return r.orders }
func (r *CreateOrderResultResolver) OrderCount() int32        { return r.count }
func (r *CreateOrderResultResolver) Message() *string         { return optString(r.message) }

// SellerStats is a seller's order dashboard block.
type SellerStats struct {
	TotalOrders     int32   `json:"totalOrders"`
	TotalRevenue    float64 `json:"totalRevenue"`
	PendingOrders   int32   `json:"pendingOrders"`
	CompletedOrders int32   `json:"completedOrders"`
}

// AdminStats is the storewide order stats block.
type AdminStats struct {
	TotalOrders   int32   `json:"totalOrders"`
	TotalRevenue  float64 `json:"totalRevenue"`
	PendingOrders int32   `json:"pendingOrders"`
}

// Orders lists orders with optional filters. Requires a token.
func (r *Resolver) Orders(ctx context.Context, args struct {
	Page       *int32
	Limit      *int32
	CustomerId *graphqlgo.ID
	SellerId   *graphqlgo.ID
	Status     *string
}) (*OrderPageResolver, error) {
	id, err := r.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	q := pageQuery(args.Page, args.Limit, 10)
	if args.CustomerId != nil {
		q.Set("customerId", string(*args.CustomerId))
	}
	if args.SellerId != nil {
		q.Set("sellerId", string(*args.SellerId))
	}
	setOpt(q, "status", args.Status)

	env, err := r.order.Get(ctx, "/api/orders", q, client.WithAuth(id.Token))
	if err != nil {
		return nil, relayError(err, "Failed to fetch orders")
	}

	var out struct {
		Orders     []wireOrder      `json:"orders"`
		Pagination *client.PageInfo `json:"pagination"`
	}
	if err := env.Decode(&out); err != nil {
		return nil, relayError(err, "Failed to fetch orders")
	}
	return &OrderPageResolver{
		orders:   orderResolvers(out.Orders),
		pageInfo: pageInfoFrom(out.Pagination, i32(args.Page, 1), i32(args.Limit, 10), len(out.Orders)),
	}, nil
}

// Order fetches one order by id. Requires a token.
func (r *Resolver) Order(ctx context.Context, args struct{ ID graphqlgo.ID }) (*OrderResolver, error) {
	id, err := r.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	env, err := r.order.Get(ctx, "/api/orders/"+url.PathEscape(string(args.ID)), nil, client.WithAuth(id.Token))
	if err != nil {
		return nil, relayError(err, "Failed to fetch order")
	}
	var o wireOrder
	if err := env.DecodeField("order", &o); err != nil {
		return nil, relayError(err, "Failed to fetch order")
	}
	return &OrderResolver{o: o}, nil
}

// OrdersByCustomer lists one customer's orders, empty on a missing payload.
// Requires a token.
func (r *Resolver) OrdersByCustomer(ctx context.Context, args struct {
	CustomerId graphqlgo.ID
	Page       *int32
	Limit      *int32
}) ([]*OrderResolver, error) {
	id, err := r.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	q := pageQuery(args.Page, args.Limit, 10)
	env, err := r.order.Get(ctx, "/api/orders/customer/"+url.PathEscape(string(args.CustomerId)), q, client.WithAuth(id.Token))
	if err != nil {
		return nil, relayError(err, "Failed to fetch customer orders")
	}

	var out struct {
		Orders []wireOrder `json:"orders"`
	}
	if err := env.Decode(&out); err != nil {
		return []*OrderResolver{}, nil
	}
	return orderResolvers(out.Orders), nil
}

// SellerStats returns a seller's order stats, the caller's own unless a
// sellerId is supplied. Requires a token.
func (r *Resolver) SellerStats(ctx context.Context, args struct{ SellerId *graphqlgo.ID }) (*SellerStats, error) {
	id, err := r.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	if args.SellerId != nil {
		q.Set("sellerId", string(*args.SellerId))
	}
	env, err := r.order.Get(ctx, "/api/orders/seller-stats", q, client.WithAuth(id.Token))
	if err != nil {
		return nil, relayError(err, "Failed to fetch seller stats")
	}
	var stats SellerStats
	if err := env.DecodeField("stats", &stats); err != nil {
		return nil, relayError(err, "Failed to fetch seller stats")
	}
	return &stats, nil
}

// AdminStats returns storewide order stats. Requires a token.
func (r *Resolver) AdminStats(ctx context.Context) (*AdminStats, error) {
	id, err := r.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	env, err := r.order.Get(ctx, "/api/orders/admin-stats", nil, client.WithAuth(id.Token))
	if err != nil {
		return nil, relayError(err, "Failed to fetch admin stats")
	}
	var stats AdminStats
	if err := env.DecodeField("stats", &stats); err != nil {
		return nil, relayError(err, "Failed to fetch admin stats")
	}
	return &stats, nil
}

// OrderItemInput is one line of a new order.
type OrderItemInput struct {
	ProductId graphqlgo.ID
	Quantity  int32
}

// ShippingAddressInput is the destination of a new order.
type ShippingAddressInput struct {
	Street  string
	City    string
	State   *string
	ZipCode *string
	Country *string
}

// CreateOrderInput mirrors the createOrder mutation's input object.
type CreateOrderInput struct {
	Items           []OrderItemInput
	ShippingAddress *ShippingAddressInput
	CouponCode      *string
	PaymentMethod   *string
}

// CreateOrder places an order. The order service may return one order or,
// for multi-seller carts, several; both shapes resolve through the same
// result type. Requires a token.
func (r *Resolver) CreateOrder(ctx context.Context, args struct{ Input CreateOrderInput }) (*CreateOrderResultResolver, error) {
	id, err := r.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]map[string]any, 0, len(args.Input.Items))
	for _, it := range args.Input.Items {
		items = append(items, map[string]any{
			"productId": string(it.ProductId),
			"quantity":  it.Quantity,
		})
	}
	body := map[string]any{"items": items}
	if a := args.Input.ShippingAddress; a != nil {
		addr := map[string]any{"street": a.Street, "city": a.City}
		if a.State != nil {
			addr["state"] = *a.State
		}
		if a.ZipCode != nil {
			addr["zipCode"] = *a.ZipCode
		}
		if a.Country != nil {
			addr["country"] = *a.Country
		}
		body["shippingAddress"] = addr
	}
	if args.Input.CouponCode != nil {
		body["couponCode"] = *args.Input.CouponCode
	}
	if args.Input.PaymentMethod != nil {
		body["paymentMethod"] = *args.Input.PaymentMethod
	}

	env, err := r.order.Post(ctx, "/api/orders", body, client.WithAuth(id.Token))
	if err != nil {
		return nil, relayError(err, "Failed to create order")
	}

	result := &CreateOrderResultResolver{
		orders:  []*OrderResolver{},
		message: env.Message,
	}
	if env.FieldPresent("orders") {
		var out struct {
			Orders     []wireOrder `json:"orders"`
			OrderCount int32       `json:"orderCount"`
		}
		if err := env.Decode(&out); err != nil {
			return nil, relayError(err, "Failed to create order")
		}
		result.orders = orderResolvers(out.Orders)
		result.count = out.OrderCount
		if result.count == 0 {
			result.count = int32(len(out.Orders))
		}
		return result, nil
	}

	var o wireOrder
	if err := env.DecodeField("order", &o); err != nil {
		return nil, relayError(err, "Failed to create order")
	}
	result.order = &OrderResolver{o: o}
	result.count = 1
	return result, nil
}

// UpdateOrderStatus moves an order through its lifecycle. The status is
// uppercased before dispatch so the downstream sees its canonical form.
// Requires a token.
func (r *Resolver) UpdateOrderStatus(ctx context.Context, args struct {
	ID     graphqlgo.ID
	Status string
}) (*OrderResolver, error) {
	return r.patchOrder(ctx, string(args.ID), "/status",
		map[string]any{"status": strings.ToUpper(args.Status)}, "Failed to update order status")
}

// UpdatePaymentStatus updates an order's payment state. Requires a token.
func (r *Resolver) UpdatePaymentStatus(ctx context.Context, args struct {
	ID            graphqlgo.ID
	PaymentStatus string
}) (*OrderResolver, error) {
	return r.patchOrder(ctx, string(args.ID), "/payment-status",
		map[string]any{"paymentStatus": strings.ToUpper(args.PaymentStatus)}, "Failed to update payment status")
}

func (r *Resolver) patchOrder(ctx context.Context, orderID, suffix string, body map[string]any, fallback string) (*OrderResolver, error) {
	id, err := r.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	env, err := r.order.Patch(ctx, "/api/orders/"+url.PathEscape(orderID)+suffix, body, client.WithAuth(id.Token))
	if err != nil {
		return nil, relayError(err, fallback)
	}
	var o wireOrder
	if err := env.DecodeField("order", &o); err != nil {
		return nil, relayError(err, fallback)
	}
	return &OrderResolver{o: o}, nil
}

// CancelOrder cancels an order. Requires a token.
func (r *Resolver) CancelOrder(ctx context.Context, args struct{ ID graphqlgo.ID }) (*OrderResolver, error) {
	id, err := r.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	env, err := r.order.Post(ctx, "/api/orders/"+url.PathEscape(string(args.ID))+"/cancel", nil, client.WithAuth(id.Token))
	if err != nil {
		return nil, relayError(err, "Failed to cancel order")
	}
	var o wireOrder
	if err := env.DecodeField("order", &o); err != nil {
		return nil, relayError(err, "Failed to cancel order")
	}
	return &OrderResolver{o: o}, nil
}

func orderResolvers(orders []wireOrder) []*OrderResolver {
	out := make([]*OrderResolver, 0, len(orders))
	for _, o := range orders {
		out = append(out, &OrderResolver{o: o})
	}
	return out
}
