package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"

	"github.com/tidepool-org/identity/api"
	"github.com/tidepool-org/identity/common"
	"github.com/tidepool-org/identity/common/logging"
	"github.com/tidepool-org/identity/services"
)

type ServiceConfig struct {
	Address         string        `envconfig:"TIDEPOOL_IDENTITY_SERVICE_ADDRESS" default:":9107"`
	ShutdownTimeout time.Duration `envconfig:"TIDEPOOL_IDENTITY_SHUTDOWN_TIMEOUT" default:"15s"`
}

const (
	identity_service_prefix = "identity "
)

func main() {
	var service ServiceConfig
	if err := envconfig.Process("", &service); err != nil {
		log.Fatal(identity_service_prefix, "Problem loading service config ", err)
	}
	config, err := services.LoadConfig()
	if err != nil {
		log.Fatal(identity_service_prefix, "Problem loading config ", err)
	}
	logger := logging.New(identity_service_prefix, config.LogLevel)

	ctx := context.Background()
	runtime, err := services.Open(ctx, config, logger)
	if err != nil {
		logger.WithError(err).Fatal("unable to open the document store")
	}
	defer runtime.Close(ctx)

	kind, _ := config.KeyKind()
	logger.WithField("keyType", kind).Info("adding api/identity")

	rtr := mux.NewRouter()
	err = services.Dispatch(kind,
		func() error { return register[string](rtr, runtime, logger) },
		func() error { return register[int32](rtr, runtime, logger) },
		func() error { return register[int64](rtr, runtime, logger) },
	)
	if err != nil {
		logger.WithError(err).Fatal("unable to register the api")
	}

	/*
	 * Serve it up
	 */
	server := &http.Server{
		Addr:    service.Address,
		Handler: rtr,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server stopped")
		}
	}()
	logger.WithField("address", service.Address).Info("listening")

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	sig := <-signals
	logger.Infof("Got signal [%s]", sig)

	shutdownCtx, cancel := context.WithTimeout(ctx, service.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("unable to shut down the server")
	}
}

func register[K common.Key](rtr *mux.Router, runtime *services.Runtime, logger *log.Entry) error {
	svc := services.New[K](runtime.Documents, logger, runtime.StoreOptions()...)
	api.New[K](svc, runtime.Documents, logger).SetHandlers("", rtr)
	return nil
}
