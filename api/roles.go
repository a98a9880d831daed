package api

import (
	"context"
	"net/http"

	"github.com/tidepool-org/identity/common"
	"github.com/tidepool-org/identity/identity"
	"github.com/tidepool-org/identity/services"
)

// status: 200 []Role
// status: 400 STATUS_BAD_REQUEST
func (a *Api[K]) GetRoles(res http.ResponseWriter, req *http.Request) {
	a.withScope(res, req, func(ctx context.Context, scope *services.Scope[K]) {
		page, err := pageFromQuery(req)
		if err != nil {
			a.sendError(ctx, res, err)
			return
		}
		roles, err := scope.Roles.Roles(ctx, page)
		if err != nil {
			a.sendError(ctx, res, err)
			return
		}
		common.OutputJSON(res, http.StatusOK, roles)
	})
}

func (a *Api[K]) findRole(ctx context.Context, res http.ResponseWriter, scope *services.Scope[K], roleID string) *identity.Role[K] {
	role, err := scope.Roles.FindByID(ctx, roleID)
	if err != nil {
		a.sendError(ctx, res, err)
		return nil
	}
	if role == nil {
		common.OutputError(res, http.StatusNotFound, STATUS_NO_ROLE)
		return nil
	}
	return role
}

// status: 200 Role
// status: 404 STATUS_NO_ROLE
func (a *Api[K]) GetRole(res http.ResponseWriter, req *http.Request, vars map[string]string) {
	a.withScope(res, req, func(ctx context.Context, scope *services.Scope[K]) {
		if role := a.findRole(ctx, res, scope, vars["roleid"]); role != nil {
			common.OutputJSON(res, http.StatusOK, role)
		}
	})
}

// status: 200 []Claim
// status: 404 STATUS_NO_ROLE
func (a *Api[K]) GetRoleClaims(res http.ResponseWriter, req *http.Request, vars map[string]string) {
	a.withScope(res, req, func(ctx context.Context, scope *services.Scope[K]) {
		role := a.findRole(ctx, res, scope, vars["roleid"])
		if role == nil {
			return
		}
		claims, err := scope.Roles.GetClaims(ctx, role)
		if err != nil {
			a.sendError(ctx, res, err)
			return
		}
		common.OutputJSON(res, http.StatusOK, claims)
	})
}

// status: 200 []User
// status: 404 STATUS_NO_ROLE
func (a *Api[K]) GetRoleUsers(res http.ResponseWriter, req *http.Request, vars map[string]string) {
	a.withScope(res, req, func(ctx context.Context, scope *services.Scope[K]) {
		role := a.findRole(ctx, res, scope, vars["roleid"])
		if role == nil {
			return
		}
		users, err := scope.Users.GetUsersInRole(ctx, role.Name)
		if err != nil {
			a.sendError(ctx, res, err)
			return
		}
		common.OutputJSON(res, http.StatusOK, users)
	})
}
