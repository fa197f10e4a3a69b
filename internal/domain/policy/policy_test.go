package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/policy"
)

func TestAllow_ClienteNoAdministra(t *testing.T) {
	assert.False(t, policy.Allow(entity.RoleCustomer, policy.ActionOrdersUpdateStatus))
	assert.False(t, policy.Allow(entity.RoleCustomer, policy.ActionPromotionsManage))
	assert.False(t, policy.Allow("", policy.ActionDashboardView))
}

func TestAllow_AdminYSuperAdmin(t *testing.T) {
	for _, role := range []string{entity.RoleAdmin, entity.RoleSuperAdmin} {
		assert.True(t, policy.Allow(role, policy.ActionOrdersUpdateStatus), role)
		assert.True(t, policy.Allow(role, policy.ActionBankAccountsManage), role)
	}
}

func TestAllow_CambioDeRolSoloSuperAdmin(t *testing.T) {
	assert.False(t, policy.Allow(entity.RoleAdmin, policy.ActionUsersChangeRole))
	assert.True(t, policy.Allow(entity.RoleSuperAdmin, policy.ActionUsersChangeRole))
}

func TestAllow_AccionDesconocida(t *testing.T) {
	assert.False(t, policy.Allow(entity.RoleSuperAdmin, policy.Action("inventado")))
}
