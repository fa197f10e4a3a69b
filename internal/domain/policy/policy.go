// Package policy centraliza la decisión de autorización {rol, acción} → permitir/denegar.
// Todos los handlers que mutan estado administrativo pasan por Allow.
package policy

import "github.com/jhoicas/ferreteria-api/internal/domain/entity"

// Action permiso evaluado por la política.
type Action string

const (
	ActionOrdersReadAll      Action = "orders:read-all"
	ActionOrdersUpdateStatus Action = "orders:update-status"
	ActionPromotionsManage   Action = "promotions:manage"
	ActionBankAccountsManage Action = "bank-accounts:manage"
	ActionProductsManage     Action = "products:manage"
	ActionUsersManage        Action = "users:manage"
	ActionUsersChangeRole    Action = "users:change-role"
	ActionDashboardView      Action = "dashboard:view"
	ActionUploadsCreate      Action = "uploads:create"
	ActionAISuggest          Action = "ai:suggest"
)

var rules = map[Action][]string{
	ActionOrdersReadAll:      {entity.RoleAdmin, entity.RoleSuperAdmin},
	ActionOrdersUpdateStatus: {entity.RoleAdmin, entity.RoleSuperAdmin},
	ActionPromotionsManage:   {entity.RoleAdmin, entity.RoleSuperAdmin},
	ActionBankAccountsManage: {entity.RoleAdmin, entity.RoleSuperAdmin},
	ActionProductsManage:     {entity.RoleAdmin, entity.RoleSuperAdmin},
	ActionUsersManage:        {entity.RoleAdmin, entity.RoleSuperAdmin},
	ActionUsersChangeRole:    {entity.RoleSuperAdmin},
	ActionDashboardView:      {entity.RoleAdmin, entity.RoleSuperAdmin},
	ActionUploadsCreate:      {entity.RoleAdmin, entity.RoleSuperAdmin},
	ActionAISuggest:          {entity.RoleAdmin, entity.RoleSuperAdmin},
}

// Allow indica si el rol puede ejecutar la acción. Acciones desconocidas se deniegan.
func Allow(role string, action Action) bool {
	for _, r := range rules[action] {
		if r == role {
			return true
		}
	}
	return false
}
