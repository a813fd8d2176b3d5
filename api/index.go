// Package handler is the serverless entry point. The container is built on the first request and reused while the instance stays warm.
package handler

import (
	"net/http"
	"ofcoz/config"
	"ofcoz/di"
	"ofcoz/shared/logger"
	"sync"
)

var (
	server http.Handler
	once   sync.Once
)

func boot() {
	logger.InitLogger()
	logger.Setup(config.Get())

	server = di.InitializeService()
}

func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(boot)

	// Some platforms hand over a bare path in RequestURI.
	r.RequestURI = r.URL.String()

	server.ServeHTTP(w, r)
}
