package actions

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/relloyd/costpipe/constants"
	"github.com/relloyd/costpipe/helper"
	"github.com/relloyd/costpipe/logger"
)

const (
	urlContext4CostByEq = "/runs/" + constants.ActionFuncsSubCommandCostByEq
)

type WebServerConfig struct {
	LogLevel         string `errorTxt:"log level" mandatory:"yes"`
	Scheme           string `errorTxt:"scheme" mandatory:"no"`
	Addr             net.IP `errorTxt:"address" mandatory:"no"`
	Port             int    `errorTxt:"port" mandatory:"no"`
	CostByEq         CostByEqConfig
	StackDumpOnPanic bool
}

func RunWebServer(web *WebServerConfig) error {
	if web == nil {
		return errors.New("nil pointer to web server config supplied")
	}
	if err := helper.ValidateStructIsPopulated(web); err != nil {
		return err
	}
	log := logger.NewLogger(constants.AppName, web.LogLevel, web.StackDumpOnPanic)
	if web.CostByEq.Log == nil {
		web.CostByEq.Log = log
	}
	chanStopServer := make(chan string, 1)
	srv := &http.Server{
		Addr:         fmt.Sprintf("%v:%v", web.Addr, web.Port),
		WriteTimeout: time.Minute * 30, // runs are synchronous.
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      NewRouter(log, web.CostByEq, NewRunGuard(), RunCostByEq, chanStopServer),
	}
	// Run HTTP server non-blocking.
	chanErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			chanErr <- err
		}
	}()
	log.Info(fmt.Sprintf("Listening on %v://%v:%v", strings.ToLower(web.Scheme), web.Addr, web.Port))
	return waitForServer(log, srv, chanStopServer, chanErr)
}

// NewRouter returns the routes served by RunWebServer.
func NewRouter(log logger.Logger, template CostByEqConfig, guard *RunGuard, run CostByEqRunner, chanStopServer chan string) *mux.Router {
	r := mux.NewRouter()
	r.Path("/health").Methods(http.MethodGet).HandlerFunc(GetHandlerHealth(log))
	r.Path("/stop").Methods(http.MethodPost).HandlerFunc(GetHandlerStopServer(log, chanStopServer))
	r.Path(urlContext4CostByEq).Methods(http.MethodPost).HandlerFunc(GetHandlerRunCostByEq(log, template, guard, run))
	return r
}

func waitForServer(log logger.Logger, srv *http.Server, chanStopServer chan string, chanErr chan error) error {
	// Accept graceful shutdowns when quit via SIGINT (Ctrl+C).
	chanOS := make(chan os.Signal, 1)
	signal.Notify(chanOS, os.Interrupt)
	defer signal.Stop(chanOS)
	select {
	case err := <-chanErr:
		return err
	case <-chanStopServer:
	case <-chanOS:
	}
	log.Info("Shutting down web server...")
	// Shutdown waits for in-flight runs to respond until the timeout.
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	return srv.Shutdown(ctx)
}
