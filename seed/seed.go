// Package seed bulk-loads sample documents into the storefront's MongoDB
// collections. It exists for demo and development environments; the
// generated data is fake but shaped like production documents.
package seed

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/3a-softwares/E-Storefront-Services/errors"
	"github.com/3a-softwares/E-Storefront-Services/identity"
)

// Collections seeded, cleared and counted, in seeding order.
var Collections = []string{
	"users", "categories", "products", "coupons",
	"orders", "reviews", "addresses", "tickets",
}

// Stats counts documents per collection.
type Stats map[string]int64

// Total sums the per-collection counts.
func (s Stats) Total() int64 {
	var total int64
	for _, n := range s {
		total += n
	}
	return total
}

// Status describes the current database contents.
type Status struct {
	Collections    Stats `json:"collections"`
	TotalDocuments int64 `json:"totalDocuments"`
	IsEmpty        bool  `json:"isEmpty"`
}

// Seeder connects lazily per operation and disconnects afterwards; seeding
// is rare enough that holding a pool open buys nothing.
type Seeder struct {
	uri      string
	database string
	logger   *slog.Logger
}

// New creates a seeder for the given MongoDB URI and database name.
func New(uri, database string, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		uri:      uri,
		database: database,
		logger:   logger.With("component", "seed"),
	}
}

func (s *Seeder) connect(ctx context.Context) (*mongo.Client, error) {
	cli, err := mongo.Connect(ctx, options.Client().ApplyURI(s.uri))
	if err != nil {
		return nil, errors.WrapUnavailable(err, "Seeder", "connect", "mongodb")
	}
	if err := cli.Ping(ctx, nil); err != nil {
		_ = cli.Disconnect(ctx)
		return nil, errors.WrapUnavailable(err, "Seeder", "connect", "ping mongodb")
	}
	return cli, nil
}

// Run generates and inserts sample data. With preserveUsers, existing user
// documents stay and generated users whose email already exists
// (case-insensitive) are skipped, so repeated seeding is idempotent by
// email. Returns per-collection insert counts.
func (s *Seeder) Run(ctx context.Context, preserveUsers bool) (Stats, error) {
	cli, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = cli.Disconnect(dctx)
	}()

	db := cli.Database(s.database)
	start := time.Now()

	users := generateUsers()
	if preserveUsers {
		existing, err := existingEmails(ctx, db)
		if err != nil {
			return nil, err
		}
		users = filterNewUsers(existing, users)
	}

	sample := generateSample(users)
	stats := make(Stats, len(Collections))
	for _, name := range Collections {
		docs := sample[name]
		if len(docs) == 0 {
			stats[name] = 0
			continue
		}
		res, err := db.Collection(name).InsertMany(ctx, docs)
		if err != nil {
			return nil, errors.Wrap(err, "Seeder", "Run", "insert "+name)
		}
		stats[name] = int64(len(res.InsertedIDs))
	}

	s.logger.Info("seed complete",
		"documents", stats.Total(),
		"preserveUsers", preserveUsers,
		"duration", time.Since(start))
	return stats, nil
}

// Clear drops every seeded collection except users. User documents are
// deleted selectively so admin accounts survive a reset.
func (s *Seeder) Clear(ctx context.Context) (Stats, error) {
	cli, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = cli.Disconnect(dctx)
	}()

	db := cli.Database(s.database)
	stats := make(Stats, len(Collections))
	for _, name := range Collections {
		if name == "users" {
			res, err := db.Collection(name).DeleteMany(ctx, bson.M{
				"role": bson.M{"$ne": identity.RoleAdmin},
			})
			if err != nil {
				return nil, errors.Wrap(err, "Seeder", "Clear", "delete non-admin users")
			}
			stats[name] = res.DeletedCount
			continue
		}

		count, err := db.Collection(name).CountDocuments(ctx, bson.M{})
		if err != nil {
			return nil, errors.Wrap(err, "Seeder", "Clear", "count "+name)
		}
		if err := db.Collection(name).Drop(ctx); err != nil {
			return nil, errors.Wrap(err, "Seeder", "Clear", "drop "+name)
		}
		stats[name] = count
	}

	s.logger.Info("seed data cleared", "documents", stats.Total())
	return stats, nil
}

// DatabaseStatus reports per-collection document counts.
func (s *Seeder) DatabaseStatus(ctx context.Context) (*Status, error) {
	cli, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = cli.Disconnect(dctx)
	}()

	db := cli.Database(s.database)
	counts := make(Stats, len(Collections))
	for _, name := range Collections {
		n, err := db.Collection(name).CountDocuments(ctx, bson.M{})
		if err != nil {
			return nil, errors.Wrap(err, "Seeder", "DatabaseStatus", "count "+name)
		}
		counts[name] = n
	}

	total := counts.Total()
	return &Status{
		Collections:    counts,
		TotalDocuments: total,
		IsEmpty:        total == 0,
	}, nil
}

// existingEmails fetches the lowercased emails already present in users.
func existingEmails(ctx context.Context, db *mongo.Database) ([]string, error) {
	raw, err := db.Collection("users").Distinct(ctx, "email", bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "Seeder", "Run", "list existing emails")
	}
	emails := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			emails = append(emails, s)
		}
	}
	return emails, nil
}

// filterNewUsers drops candidates whose email already exists,
// case-insensitively. Order is preserved.
func filterNewUsers(existing []string, candidates []userDoc) []userDoc {
	seen := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		seen[strings.ToLower(e)] = struct{}{}
	}

	kept := make([]userDoc, 0, len(candidates))
	for _, u := range candidates {
		key := strings.ToLower(u.Email)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, u)
	}
	return kept
}
