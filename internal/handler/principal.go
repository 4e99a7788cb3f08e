package handler

import (
	"time"

	"github.com/dromero/jsonkeep/internal/model"
)

// principalResp is the wire shape for an account; the password hash never
// leaves the service.
type principalResp struct {
	ID         int64     `json:"id"`
	Names      string    `json:"names"`
	Email      string    `json:"email,omitempty"`
	IDCard     string    `json:"idCard,omitempty"`
	Username   string    `json:"username"`
	Role       string    `json:"role"`
	Active     bool      `json:"active"`
	Locked     bool      `json:"locked"`
	CreatedAt  time.Time `json:"createdDate"`
	ModifiedAt time.Time `json:"modifiedDate"`
}

func toPrincipalResp(u model.User) principalResp {
	return principalResp{
		ID:         u.ID,
		Names:      u.Names,
		Email:      u.Email,
		IDCard:     u.IDCard,
		Username:   u.Username,
		Role:       u.Role,
		Active:     u.Active,
		Locked:     u.Locked,
		CreatedAt:  u.CreatedAt,
		ModifiedAt: u.ModifiedAt,
	}
}

func toPrincipalResps(users []model.User) []principalResp {
	out := make([]principalResp, 0, len(users))
	for _, u := range users {
		out = append(out, toPrincipalResp(u))
	}
	return out
}
