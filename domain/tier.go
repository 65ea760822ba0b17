package domain

import "fmt"

// Tier is the membership rank ladder. It is a closed set: unknown strings are
// rejected at the boundary, and all comparisons go through Rank.
type Tier string

const (
	TierGrassroot Tier = "grassroot"
	TierPioneer   Tier = "pioneer"
	TierElder     Tier = "elder"
	TierBlood     Tier = "blood"
)

var tierRanks = map[Tier]int{
	TierGrassroot: 0,
	TierPioneer:   1,
	TierElder:     2,
	TierBlood:     3,
}

// ParseTier validates a tier string against the closed set.
func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if _, ok := tierRanks[t]; !ok {
		return "", fmt.Errorf("unknown tier %q", s)
	}
	return t, nil
}

// Valid reports whether the tier belongs to the closed set.
func (t Tier) Valid() bool {
	_, ok := tierRanks[t]
	return ok
}

// Rank returns the tier's position in the ladder, lowest first.
func (t Tier) Rank() int {
	return tierRanks[t]
}

// AtLeast reports whether the tier ranks at or above min.
func (t Tier) AtLeast(min Tier) bool {
	return t.Valid() && min.Valid() && t.Rank() >= min.Rank()
}

// Role is the closed set of authorization roles.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

var roleRanks = map[Role]int{
	RoleUser:      0,
	RoleModerator: 1,
	RoleAdmin:     2,
}

// ParseRole validates a role string against the closed set.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := roleRanks[r]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// AtLeast reports whether the role ranks at or above min.
func (r Role) AtLeast(min Role) bool {
	return r.Valid() && min.Valid() && roleRanks[r] >= roleRanks[min]
}
