// Package identity resolves users and station operators for notifications
// and audit lines. Unknown users resolve to the SYSTEM sender.
package identity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zulandar/pressyard/internal/models"
	"github.com/zulandar/pressyard/internal/station"
	"gorm.io/gorm"
)

// SystemName is the display name of the reserved system user (id 0).
const SystemName = "SYSTEM"

// User is a notification party.
type User struct {
	ID         uint   `json:"id"`
	OperatorID uint   `json:"operatorId,omitempty"`
	Email      string `json:"email"`
	Name       string `json:"names"`
}

// IsSystem reports whether u is the SYSTEM fallback.
func (u User) IsSystem() bool {
	return u.ID == 0
}

// System returns the SYSTEM user with the configured e-mail.
func System(email string) User {
	return User{ID: 0, Email: email, Name: SystemName}
}

// Lookup returns the user with id, or System(systemEmail) when the id is 0
// or does not exist.
func Lookup(db *gorm.DB, id uint, systemEmail string) (User, error) {
	if id == 0 {
		return System(systemEmail), nil
	}
	var u models.User
	err := db.First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return System(systemEmail), nil
	}
	if err != nil {
		return User{}, fmt.Errorf("identity: get user %d: %w", id, err)
	}
	return fromModel(u, 0), nil
}

// Recipients returns the users operating a station. A station without
// operators yields the SYSTEM user alone.
func Recipients(db *gorm.DB, st station.Station, systemEmail string) ([]User, error) {
	var ops []models.ProductionOperator
	if err := db.Where("station = ?", st).Order("id").Find(&ops).Error; err != nil {
		return nil, fmt.Errorf("identity: operators of %s: %w", st, err)
	}
	var out []User
	for _, op := range ops {
		var u models.User
		err := db.First(&u, op.UserID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("identity: get user %d: %w", op.UserID, err)
		}
		out = append(out, fromModel(u, op.ID))
	}
	if len(out) == 0 {
		return []User{System(systemEmail)}, nil
	}
	return out, nil
}

// OperatorID returns the production operator id of a user, or 0.
func OperatorID(db *gorm.DB, userID uint) (uint, error) {
	var op models.ProductionOperator
	err := db.Where("user_id = ?", userID).First(&op).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("identity: operator of user %d: %w", userID, err)
	}
	return op.ID, nil
}

func fromModel(u models.User, operatorID uint) User {
	return User{
		ID:         u.ID,
		OperatorID: operatorID,
		Email:      u.Email,
		Name:       strings.TrimSpace(u.FirstName + " " + u.LastName),
	}
}
