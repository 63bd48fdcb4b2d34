// resend-stub imita POST /emails do Resend para testes locais do gateway
// (RESEND_BASE_URL=http://localhost:8081). FAIL_FIRST=N faz as N primeiras
// chamadas responderem 503, o que exercita o retry.
package main

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type stub struct {
	failFirst int64
	calls     atomic.Int64
	logger    logrus.FieldLogger
}

func (s *stub) handleEmails(w http.ResponseWriter, r *http.Request) {
	n := s.calls.Add(1)
	w.Header().Set("Content-Type", "application/json")

	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"name":"missing_api_key","message":"Missing API key in the authorization header."}`))
		return
	}
	if n <= s.failFirst {
		s.logger.WithField("call", n).Warn("simulating provider failure")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"name":"service_unavailable","message":"simulated outage"}`))
		return
	}

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"name":"validation_error","message":"invalid JSON"}`))
		return
	}

	id := uuid.NewString()
	s.logger.WithFields(logrus.Fields{
		"call":     n,
		"id":       id,
		"to":       body["to"],
		"reply_to": body["reply_to"],
		"subject":  body["subject"],
	}).Info("email accepted")
	_ = json.NewEncoder(w).Encode(map[string]string{"id": id})
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	failFirst, _ := strconv.ParseInt(os.Getenv("FAIL_FIRST"), 10, 64)
	s := &stub{failFirst: failFirst, logger: logger}

	r := mux.NewRouter()
	r.HandleFunc("/emails", s.handleEmails).Methods(http.MethodPost)

	addr := ":8081"
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		addr = v
	}
	logger.WithFields(logrus.Fields{"addr": addr, "fail_first": failFirst}).Info("resend stub listening")
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.WithError(err).Fatal("server error")
	}
}
