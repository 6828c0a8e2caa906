package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUsersRoleBlocks(t *testing.T) {
	users := generateUsers()

	counts := map[string]int{}
	for _, u := range users {
		counts[u.Role]++
	}

	assert.Equal(t, adminCount, counts["admin"])
	assert.Equal(t, sellerCount, counts["seller"])
	assert.Equal(t, customerCount, counts["customer"])
	assert.Equal(t, supportCount, counts["support"])

	// Admins lead the slice so a partially failed seed still leaves a login.
	for i := 0; i < adminCount; i++ {
		assert.Equal(t, "admin", users[i].Role)
	}
}

func TestFilterNewUsersDedupesCaseInsensitively(t *testing.T) {
	candidates := []userDoc{
		{Name: "A", Email: "alice@example.com"},
		{Name: "B", Email: "Bob@Example.COM"},
		{Name: "C", Email: "carol@example.com"},
	}
	existing := []string{"ALICE@example.com", "bob@example.com"}

	kept := filterNewUsers(existing, candidates)

	require.Len(t, kept, 1)
	assert.Equal(t, "carol@example.com", kept[0].Email)
}

func TestFilterNewUsersDropsInternalDuplicates(t *testing.T) {
	candidates := []userDoc{
		{Name: "A", Email: "dup@example.com"},
		{Name: "B", Email: "DUP@example.com"},
		{Name: "C", Email: "unique@example.com"},
	}

	kept := filterNewUsers(nil, candidates)

	require.Len(t, kept, 2)
	assert.Equal(t, "dup@example.com", kept[0].Email)
	assert.Equal(t, "unique@example.com", kept[1].Email)
}

func TestFilterNewUsersPreservesOrder(t *testing.T) {
	candidates := generateUsers()
	kept := filterNewUsers(nil, candidates)

	require.Equal(t, len(candidates), len(kept))
	for i := range kept {
		assert.Equal(t, candidates[i].Email, kept[i].Email)
	}
}

func TestGenerateSampleCrossReferences(t *testing.T) {
	users := generateUsers()
	sample := generateSample(users)

	for _, name := range Collections {
		assert.Contains(t, sample, name)
	}
	assert.Len(t, sample["users"], len(users))
	assert.NotEmpty(t, sample["products"])
	assert.NotEmpty(t, sample["orders"])

	sellerIDs := map[string]struct{}{}
	for _, u := range usersByRole(users, "seller") {
		sellerIDs[u.ID.Hex()] = struct{}{}
	}
	for _, doc := range sample["products"] {
		product := doc.(map[string]interface{})
		sellerID, ok := product["sellerId"].(string)
		require.True(t, ok)
		assert.Contains(t, sellerIDs, sellerID)
	}
}

func TestStatsTotal(t *testing.T) {
	s := Stats{"users": 5, "products": 30, "empty": 0}
	assert.Equal(t, int64(35), s.Total())
}
