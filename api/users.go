package api

import (
	"context"
	"net/http"

	"github.com/tidepool-org/identity/common"
	"github.com/tidepool-org/identity/identity"
	"github.com/tidepool-org/identity/services"
)

// GetUsers lists users a page at a time, or looks one up with the name,
// email or claim query parameters.
// status: 200 []User
// status: 400 STATUS_BAD_REQUEST
func (a *Api[K]) GetUsers(res http.ResponseWriter, req *http.Request) {
	a.withScope(res, req, func(ctx context.Context, scope *services.Scope[K]) {
		query := req.URL.Query()
		var (
			users []*identity.User[K]
			err   error
		)
		switch {
		case query.Get("name") != "":
			users, err = single[K](scope.Users.FindByName(ctx, query.Get("name")))
		case query.Get("email") != "":
			users, err = single[K](scope.Users.FindByEmail(ctx, query.Get("email")))
		case query.Get("claimType") != "":
			users, err = scope.Users.GetUsersForClaim(ctx, identity.NewClaim(query.Get("claimType"), query.Get("claimValue")))
		default:
			var page identity.Page
			if page, err = pageFromQuery(req); err == nil {
				users, err = scope.Users.Users(ctx, page)
			}
		}
		if err != nil {
			a.sendError(ctx, res, err)
			return
		}
		common.OutputJSON(res, http.StatusOK, users)
	})
}

func single[K common.Key](user *identity.User[K], err error) ([]*identity.User[K], error) {
	if err != nil || user == nil {
		return []*identity.User[K]{}, err
	}
	return []*identity.User[K]{user}, nil
}

// findUser writes a 404 and returns nil when the user does not exist.
func (a *Api[K]) findUser(ctx context.Context, res http.ResponseWriter, scope *services.Scope[K], userID string) *identity.User[K] {
	user, err := scope.Users.FindByID(ctx, userID)
	if err != nil {
		a.sendError(ctx, res, err)
		return nil
	}
	if user == nil {
		common.OutputError(res, http.StatusNotFound, STATUS_NO_USER)
		return nil
	}
	return user
}

// status: 200 User
// status: 404 STATUS_NO_USER
func (a *Api[K]) GetUser(res http.ResponseWriter, req *http.Request, vars map[string]string) {
	a.withScope(res, req, func(ctx context.Context, scope *services.Scope[K]) {
		if user := a.findUser(ctx, res, scope, vars["userid"]); user != nil {
			common.OutputJSON(res, http.StatusOK, user)
		}
	})
}

// status: 200 []string
// status: 404 STATUS_NO_USER
func (a *Api[K]) GetUserRoles(res http.ResponseWriter, req *http.Request, vars map[string]string) {
	a.withScope(res, req, func(ctx context.Context, scope *services.Scope[K]) {
		user := a.findUser(ctx, res, scope, vars["userid"])
		if user == nil {
			return
		}
		roles, err := scope.Users.GetRoles(ctx, user)
		if err != nil {
			a.sendError(ctx, res, err)
			return
		}
		common.OutputJSON(res, http.StatusOK, roles)
	})
}

// status: 200 []Claim
// status: 404 STATUS_NO_USER
func (a *Api[K]) GetUserClaims(res http.ResponseWriter, req *http.Request, vars map[string]string) {
	a.withScope(res, req, func(ctx context.Context, scope *services.Scope[K]) {
		user := a.findUser(ctx, res, scope, vars["userid"])
		if user == nil {
			return
		}
		claims, err := scope.Users.GetClaims(ctx, user)
		if err != nil {
			a.sendError(ctx, res, err)
			return
		}
		common.OutputJSON(res, http.StatusOK, claims)
	})
}

// status: 200 []LoginInfo
// status: 404 STATUS_NO_USER
func (a *Api[K]) GetUserLogins(res http.ResponseWriter, req *http.Request, vars map[string]string) {
	a.withScope(res, req, func(ctx context.Context, scope *services.Scope[K]) {
		user := a.findUser(ctx, res, scope, vars["userid"])
		if user == nil {
			return
		}
		logins, err := scope.Users.GetLogins(ctx, user)
		if err != nil {
			a.sendError(ctx, res, err)
			return
		}
		common.OutputJSON(res, http.StatusOK, logins)
	})
}

// status: 200 User
// status: 404 STATUS_NO_LOGIN
func (a *Api[K]) GetUserByLogin(res http.ResponseWriter, req *http.Request, vars map[string]string) {
	a.withScope(res, req, func(ctx context.Context, scope *services.Scope[K]) {
		user, err := scope.Users.FindByLogin(ctx, vars["provider"], vars["key"])
		if err != nil {
			a.sendError(ctx, res, err)
			return
		}
		if user == nil {
			common.OutputError(res, http.StatusNotFound, STATUS_NO_LOGIN)
			return
		}
		common.OutputJSON(res, http.StatusOK, user)
	})
}
