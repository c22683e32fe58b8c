package domain

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	accessCodeAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	accessCodeGroups     = 3
	accessCodeGroupWidth = 4
)

// AccessCodeTypeCourse grants access to the LightPrompt:Ed course
const AccessCodeTypeCourse = "course"

// AccessCode is a single-use redeemable code. Once IsUsed is set, UsedBy and UsedAt are set too.
type AccessCode struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Code      string         `json:"code" gorm:"uniqueIndex;not null"`
	Type      string         `json:"type" gorm:"not null;default:'course'"`
	IsUsed    bool           `json:"isUsed" gorm:"not null;default:false"`
	UsedBy    *uuid.UUID     `json:"usedBy" gorm:"type:uuid"`
	UsedAt    *time.Time     `json:"usedAt"`
	ExpiresAt *time.Time     `json:"expiresAt"`
	Metadata  datatypes.JSON `json:"metadata" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"createdAt"`
}

// IsExpired reports whether the code has passed its expiry at the given time
func (c *AccessCode) IsExpired(now time.Time) bool {
	return c.ExpiresAt != nil && !c.ExpiresAt.After(now)
}

// GenerateAccessCode returns a readable code in the form XXXX-XXXX-XXXX
func GenerateAccessCode() (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(accessCodeAlphabet)))
	for i := 0; i < accessCodeGroups*accessCodeGroupWidth; i++ {
		if i > 0 && i%accessCodeGroupWidth == 0 {
			b.WriteByte('-')
		}
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(accessCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}
