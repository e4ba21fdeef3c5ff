// Package authz decides whether a request identity may use a route.
//
// Decide is pure: it looks only at the identity, the route rule and the
// owner id taken from the path. Gate applies the decision before a handler runs.
package authz

import (
	"net/http"

	"github.com/mmvit/garudar/internal/server/identity"
)

// Rule - требование маршрута к вызывающему
type Rule int

const (
	// Public доступен без токена
	Public Rule = iota
	// Authenticated требует любой валидный токен
	Authenticated
	// SelfOrAdmin требует, чтобы {id} в пути совпадал с вызывающим, либо роль ADMIN
	SelfOrAdmin
	// Admin требует роль ADMIN
	Admin
)

func (r Rule) String() string {
	switch r {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case SelfOrAdmin:
		return "self_or_admin"
	case Admin:
		return "admin"
	default:
		return "unknown"
	}
}

// Decision - результат проверки доступа
type Decision int

const (
	// Allow - запрос проходит к обработчику
	Allow Decision = iota
	// Unauthenticated - нет identity на непубличном маршруте (401)
	Unauthenticated
	// Forbidden - identity есть, но не хватает роли или владения (403)
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Status возвращает HTTP статус отказа, 0 для Allow
func (d Decision) Status() int {
	switch d {
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	default:
		return 0
	}
}

// IsAuthenticated сообщает, что запрос несет identity
func IsAuthenticated(id *identity.Identity) bool {
	return id != nil
}

// IsAdmin сообщает, что запрос несет identity с ролью ADMIN
func IsAdmin(id *identity.Identity) bool {
	return id != nil && id.IsAdmin()
}

// IsSelfOrAdmin сообщает, что вызывающий - владелец ресурса или администратор
func IsSelfOrAdmin(id *identity.Identity, ownerID int64) bool {
	return IsAdmin(id) || (id != nil && id.UserID == ownerID)
}

// Decide evaluates rule for id. ownerID is only consulted for SelfOrAdmin.
// Неизвестное правило запрещает доступ.
func Decide(id *identity.Identity, rule Rule, ownerID int64) Decision {
	if rule == Public {
		return Allow
	}
	if !IsAuthenticated(id) {
		return Unauthenticated
	}

	switch rule {
	case Authenticated:
		return Allow
	case SelfOrAdmin:
		if IsSelfOrAdmin(id, ownerID) {
			return Allow
		}
	case Admin:
		if IsAdmin(id) {
			return Allow
		}
	}

	return Forbidden
}
