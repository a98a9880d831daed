// Package api exposes the identity stores over HTTP: a status check, the
// prometheus metrics and read only lookups of users and roles.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/tidepool-org/identity/common"
	"github.com/tidepool-org/identity/common/logging"
	"github.com/tidepool-org/identity/identity"
	"github.com/tidepool-org/identity/services"
)

const (
	STATUS_NO_USER       = "user not found"
	STATUS_NO_ROLE       = "role not found"
	STATUS_NO_LOGIN      = "login not found"
	STATUS_BAD_REQUEST   = "invalid request"
	STATUS_ERR_FINDING   = "error finding the requested resource"
	STATUS_GETSTATUS_ERR = "error checking the database"
)

// Pinger is satisfied by *docstore.DocumentStore.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Api[K common.Key] struct {
	services *services.Services[K]
	pinger   Pinger
	logger   *log.Entry
}

type varsHandler func(http.ResponseWriter, *http.Request, map[string]string)

func (h varsHandler) ServeHTTP(res http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	h(res, req, vars)
}

func New[K common.Key](svc *services.Services[K], pinger Pinger, logger *log.Entry) *Api[K] {
	return &Api[K]{services: svc, pinger: pinger, logger: logger}
}

func (a *Api[K]) SetHandlers(prefix string, rtr *mux.Router) {
	rtr.HandleFunc(prefix+"/status", a.GetStatus).Methods("GET")
	rtr.Handle(prefix+"/metrics", promhttp.Handler()).Methods("GET")

	rtr.HandleFunc(prefix+"/users", a.GetUsers).Methods("GET")
	rtr.Handle(prefix+"/users/{userid}", varsHandler(a.GetUser)).Methods("GET")
	rtr.Handle(prefix+"/users/{userid}/roles", varsHandler(a.GetUserRoles)).Methods("GET")
	rtr.Handle(prefix+"/users/{userid}/claims", varsHandler(a.GetUserClaims)).Methods("GET")
	rtr.Handle(prefix+"/users/{userid}/logins", varsHandler(a.GetUserLogins)).Methods("GET")
	rtr.Handle(prefix+"/logins/{provider}/{key}", varsHandler(a.GetUserByLogin)).Methods("GET")

	rtr.HandleFunc(prefix+"/roles", a.GetRoles).Methods("GET")
	rtr.Handle(prefix+"/roles/{roleid}", varsHandler(a.GetRole)).Methods("GET")
	rtr.Handle(prefix+"/roles/{roleid}/claims", varsHandler(a.GetRoleClaims)).Methods("GET")
	rtr.Handle(prefix+"/roles/{roleid}/users", varsHandler(a.GetRoleUsers)).Methods("GET")
}

func (a *Api[K]) GetStatus(res http.ResponseWriter, req *http.Request) {
	if err := a.pinger.Ping(req.Context()); err != nil {
		a.logger.WithError(err).Error(STATUS_GETSTATUS_ERR)
		common.OutputError(res, http.StatusInternalServerError, STATUS_GETSTATUS_ERR)
		return
	}
	common.OutputJSON(res, http.StatusOK, map[string]string{"status": "OK"})
}

// withScope runs fn in a fresh unit of work that is closed afterwards.
func (a *Api[K]) withScope(res http.ResponseWriter, req *http.Request, fn func(ctx context.Context, scope *services.Scope[K])) {
	ctx := logging.WithLogger(req.Context(), a.logger.WithFields(log.Fields{"method": req.Method, "path": req.URL.Path}))
	scope, err := a.services.NewScope(ctx)
	if err != nil {
		a.sendError(ctx, res, err)
		return
	}
	defer scope.Close(ctx)
	fn(ctx, scope)
}

func (a *Api[K]) sendError(ctx context.Context, res http.ResponseWriter, err error) {
	if errors.Is(err, common.ErrInvalidArgument) || errors.Is(err, common.ErrUnsupportedKeyType) {
		common.OutputError(res, http.StatusBadRequest, STATUS_BAD_REQUEST)
		return
	}
	logging.FromContext(ctx).WithError(err).Error(STATUS_ERR_FINDING)
	common.OutputError(res, http.StatusInternalServerError, STATUS_ERR_FINDING)
}

func pageFromQuery(req *http.Request) (identity.Page, error) {
	page := identity.Page{}
	query := req.URL.Query()
	for name, target := range map[string]*int64{"skip": &page.Skip, "limit": &page.Limit} {
		raw := query.Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			return page, common.ErrInvalidArgument
		}
		*target = v
	}
	return page, nil
}
