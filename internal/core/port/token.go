package port

import "github.com/Wyydra/confbridge/internal/core/domain"

type TokenIssuer interface {
	Issue(identity string) (domain.AccessToken, error)
}
