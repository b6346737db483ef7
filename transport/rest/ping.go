package rest

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

type PingHandler interface {
	Ping(w http.ResponseWriter, r *http.Request, _ httprouter.Params)
}

type pingHandler struct{}

func NewPingHandler() PingHandler {
	return &pingHandler{}
}

func (that *pingHandler) Ping(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}
