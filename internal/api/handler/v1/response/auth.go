package response

import (
	"github.com/Shimizu-Technology/hafaloha-wholesale-api/internal/domain"
)

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}
