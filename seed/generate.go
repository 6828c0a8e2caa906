package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/go-faker/faker/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role block sizes. Admins come first so a fresh database always has a
// usable admin login.
const (
	adminCount    = 2
	sellerCount   = 5
	customerCount = 20
	supportCount  = 3
)

var productCategories = []string{
	"Electronics", "Clothing", "Home & Garden", "Books", "Sports", "Toys",
}

type userDoc struct {
	ID              primitive.ObjectID `bson:"_id"`
	Name            string             `bson:"name"`
	Email           string             `bson:"email"`
	Password        string             `bson:"password"`
	Role            string             `bson:"role"`
	IsEmailVerified bool               `bson:"isEmailVerified"`
	CreatedAt       time.Time          `bson:"createdAt"`
}

// generateUsers builds the deterministic role blocks with fake identities.
// Admin emails are fixed so operators know the demo credentials; the rest
// come from faker.
func generateUsers() []userDoc {
	now := time.Now().UTC()
	users := make([]userDoc, 0, adminCount+sellerCount+customerCount+supportCount)

	for i := 0; i < adminCount; i++ {
		users = append(users, userDoc{
			ID:              primitive.NewObjectID(),
			Name:            fmt.Sprintf("Admin %d", i+1),
			Email:           fmt.Sprintf("admin%d@estorefront.dev", i+1),
			Password:        faker.Password(),
			Role:            "admin",
			IsEmailVerified: true,
			CreatedAt:       now,
		})
	}
	for i := 0; i < sellerCount; i++ {
		users = append(users, fakeUser("seller", now))
	}
	for i := 0; i < customerCount; i++ {
		users = append(users, fakeUser("customer", now))
	}
	for i := 0; i < supportCount; i++ {
		users = append(users, fakeUser("support", now))
	}
	return users
}

func fakeUser(role string, now time.Time) userDoc {
	return userDoc{
		ID:              primitive.NewObjectID(),
		Name:            faker.Name(),
		Email:           strings.ToLower(faker.Email()),
		Password:        faker.Password(),
		Role:            role,
		IsEmailVerified: rand.Intn(4) > 0,
		CreatedAt:       now,
	}
}

// generateSample builds every collection's documents, cross-referencing the
// generated users so sellers own products and customers own orders.
func generateSample(users []userDoc) map[string][]interface{} {
	now := time.Now().UTC()

	sellers := usersByRole(users, "seller")
	customers := usersByRole(users, "customer")

	categories := make([]interface{}, 0, len(productCategories))
	for _, name := range productCategories {
		categories = append(categories, map[string]interface{}{
			"_id":         primitive.NewObjectID(),
			"name":        name,
			"description": faker.Sentence(),
			"isActive":    true,
			"createdAt":   now,
		})
	}

	products := make([]interface{}, 0, 30)
	productIDs := make([]primitive.ObjectID, 0, 30)
	for i := 0; i < 30; i++ {
		id := primitive.NewObjectID()
		productIDs = append(productIDs, id)
		doc := map[string]interface{}{
			"_id":         id,
			"name":        faker.Word() + " " + faker.Word(),
			"description": faker.Paragraph(),
			"price":       float64(rand.Intn(49000)+1000) / 100,
			"stock":       rand.Intn(200),
			"category":    productCategories[rand.Intn(len(productCategories))],
			"rating":      float64(rand.Intn(41)+10) / 10,
			"reviewCount": rand.Intn(150),
			"isActive":    true,
			"createdAt":   now,
		}
		if len(sellers) > 0 {
			doc["sellerId"] = sellers[i%len(sellers)].ID.Hex()
		}
		products = append(products, doc)
	}

	coupons := []interface{}{
		couponDoc("WELCOME10", "percentage", 10, now),
		couponDoc("SAVE15", "percentage", 15, now),
		couponDoc("FLAT50", "fixed", 50, now),
	}

	orders := make([]interface{}, 0, 15)
	for i := 0; i < 15; i++ {
		doc := map[string]interface{}{
			"_id":           primitive.NewObjectID(),
			"orderNumber":   fmt.Sprintf("ORD-%06d", rand.Intn(1000000)),
			"totalAmount":   float64(rand.Intn(90000)+1000) / 100,
			"orderStatus":   []string{"PENDING", "SHIPPED", "DELIVERED"}[rand.Intn(3)],
			"paymentStatus": []string{"PENDING", "PAID"}[rand.Intn(2)],
			"createdAt":     now,
		}
		if len(customers) > 0 {
			doc["customerId"] = customers[i%len(customers)].ID.Hex()
		}
		if len(sellers) > 0 {
			doc["sellerId"] = sellers[i%len(sellers)].ID.Hex()
		}
		orders = append(orders, doc)
	}

	reviews := make([]interface{}, 0, 20)
	for i := 0; i < 20 && len(customers) > 0; i++ {
		customer := customers[i%len(customers)]
		reviews = append(reviews, map[string]interface{}{
			"_id":       primitive.NewObjectID(),
			"productId": productIDs[i%len(productIDs)].Hex(),
			"userId":    customer.ID.Hex(),
			"userName":  customer.Name,
			"rating":    rand.Intn(5) + 1,
			"comment":   faker.Sentence(),
			"helpful":   rand.Intn(25),
			"createdAt": now,
		})
	}

	addresses := make([]interface{}, 0, len(customers))
	for _, customer := range customers {
		addresses = append(addresses, map[string]interface{}{
			"_id":       primitive.NewObjectID(),
			"userId":    customer.ID.Hex(),
			"label":     "Home",
			"street":    faker.Word() + " Street",
			"city":      faker.Word(),
			"zipCode":   fmt.Sprintf("%05d", rand.Intn(100000)),
			"country":   "US",
			"isDefault": true,
			"createdAt": now,
		})
	}

	tickets := make([]interface{}, 0, 5)
	for i := 0; i < 5 && len(customers) > 0; i++ {
		tickets = append(tickets, map[string]interface{}{
			"_id":       primitive.NewObjectID(),
			"userId":    customers[i%len(customers)].ID.Hex(),
			"subject":   faker.Sentence(),
			"message":   faker.Paragraph(),
			"status":    "OPEN",
			"createdAt": now,
		})
	}

	userDocs := make([]interface{}, 0, len(users))
	for _, u := range users {
		userDocs = append(userDocs, u)
	}

	return map[string][]interface{}{
		"users":      userDocs,
		"categories": categories,
		"products":   products,
		"coupons":    coupons,
		"orders":     orders,
		"reviews":    reviews,
		"addresses":  addresses,
		"tickets":    tickets,
	}
}

func couponDoc(code, discountType string, value float64, now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"_id":           primitive.NewObjectID(),
		"code":          code,
		"description":   faker.Sentence(),
		"discountType":  discountType,
		"discountValue": value,
		"minOrderValue": 25.0,
		"usageCount":    0,
		"isActive":      true,
		"validFrom":     now,
		"validTo":       now.AddDate(0, 6, 0),
		"createdAt":     now,
	}
}

func usersByRole(users []userDoc, role string) []userDoc {
	out := make([]userDoc, 0, len(users))
	for _, u := range users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out
}
