package domain

// Tier represents a subscription level gating usage limits
type Tier string

const (
	TierFree       Tier = "free"
	Tier29         Tier = "tier_29"
	Tier49         Tier = "tier_49"
	TierEnterprise Tier = "enterprise"
	TierAdmin      Tier = "admin"
)

// AllTiers contains all valid tiers in ascending order
var AllTiers = []Tier{TierFree, Tier29, Tier49, TierEnterprise, TierAdmin}

// IsValid checks if a tier is valid
func (t Tier) IsValid() bool {
	switch t {
	case TierFree, Tier29, Tier49, TierEnterprise, TierAdmin:
		return true
	}
	return false
}

// String returns the string representation of the tier
func (t Tier) String() string {
	return string(t)
}

// DisplayName returns a user-friendly display name for the tier
func (t Tier) DisplayName() string {
	switch t {
	case TierFree:
		return "Free"
	case Tier29:
		return "Growth"
	case Tier49:
		return "Resonance"
	case TierEnterprise:
		return "Enterprise"
	case TierAdmin:
		return "Admin"
	default:
		return string(t)
	}
}

// Role represents an account's authorization role
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid checks if a role is valid
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}
