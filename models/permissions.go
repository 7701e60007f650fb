package models

// Action names an operation gated by role.
type Action string

const (
	ActionViewUsers   Action = "users:view"
	ActionManageUsers Action = "users:manage"

	ActionViewClients   Action = "clients:view"
	ActionManageClients Action = "clients:manage"

	ActionViewWorkOrders   Action = "work_orders:view"
	ActionCreateWorkOrder  Action = "work_orders:create"
	ActionAssignWorkOrder  Action = "work_orders:assign"
	ActionUpdateWorkOrder  Action = "work_orders:update"
	ActionDeleteWorkOrder  Action = "work_orders:delete"
	ActionClaimWorkOrder   Action = "work_orders:claim"
	ActionRecordWork       Action = "work_orders:record"
	ActionViewTechReports  Action = "tech_reports:view"
	ActionEditTechReport   Action = "tech_reports:edit"
	ActionDeleteTechReport Action = "tech_reports:delete"

	ActionViewStock      Action = "stock:view"
	ActionManageStock    Action = "stock:manage"
	ActionViewServices   Action = "services:view"
	ActionManageServices Action = "services:manage"

	ActionViewBilling   Action = "billing:view"
	ActionManageBilling Action = "billing:manage"

	ActionViewReports   Action = "reports:view"
	ActionViewFinance   Action = "finance:view"
	ActionManageFinance Action = "finance:manage"
	ActionAdminData     Action = "data:admin"

	ActionSubscribeSync Action = "sync:subscribe"
)

var everyone = []Role{RoleSuperAdmin, RoleAdmin, RoleReceptionist, RoleTechnician}

var capabilities = map[Action][]Role{
	ActionViewUsers:   {RoleSuperAdmin, RoleAdmin},
	ActionManageUsers: {RoleSuperAdmin, RoleAdmin},

	ActionViewClients:   everyone,
	ActionManageClients: {RoleSuperAdmin, RoleAdmin, RoleReceptionist},

	ActionViewWorkOrders:   everyone,
	ActionCreateWorkOrder:  {RoleSuperAdmin, RoleAdmin, RoleReceptionist},
	ActionAssignWorkOrder:  {RoleSuperAdmin, RoleAdmin, RoleReceptionist},
	ActionUpdateWorkOrder:  {RoleSuperAdmin, RoleAdmin, RoleReceptionist},
	ActionDeleteWorkOrder:  {RoleSuperAdmin, RoleAdmin},
	ActionClaimWorkOrder:   {RoleTechnician},
	ActionRecordWork:       {RoleTechnician},
	ActionViewTechReports:  everyone,
	ActionEditTechReport:   {RoleSuperAdmin, RoleAdmin, RoleTechnician},
	ActionDeleteTechReport: {RoleSuperAdmin, RoleAdmin},

	ActionViewStock:      everyone,
	ActionManageStock:    {RoleSuperAdmin, RoleAdmin},
	ActionViewServices:   everyone,
	ActionManageServices: {RoleSuperAdmin, RoleAdmin},

	ActionViewBilling:   {RoleSuperAdmin, RoleAdmin, RoleTechnician},
	ActionManageBilling: {RoleSuperAdmin, RoleAdmin},

	ActionViewReports:   {RoleSuperAdmin, RoleAdmin},
	ActionViewFinance:   {RoleSuperAdmin},
	ActionManageFinance: {RoleSuperAdmin},
	ActionAdminData:     {RoleSuperAdmin},

	ActionSubscribeSync: everyone,
}

// Can is the single authority for role based access. Unknown roles and
// unknown actions are denied.
func Can(role Role, action Action) bool {
	for _, r := range capabilities[action] {
		if r == role {
			return true
		}
	}
	return false
}
