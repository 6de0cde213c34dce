package homeserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"keyward/internal/domain"
)

const maxRequestSize = 1 << 20

// Handler returns the HTTP API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /_matrix/client/v3/account/whoami", s.authed(s.handleWhoAmI))
	mux.HandleFunc("POST /_matrix/client/v3/keys/upload", s.authed(s.handleKeysUpload))
	mux.HandleFunc("GET /_matrix/client/v3/rooms/{roomID}/state/{eventType}/{stateKey...}", s.authed(s.handleGetState))
	mux.HandleFunc("PUT /_matrix/client/v3/rooms/{roomID}/state/{eventType}/{stateKey...}", s.authed(s.handlePutState))
	return mux
}

type authedHandler func(w http.ResponseWriter, r *http.Request, d *device)

func (s *Server) authed(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "M_MISSING_TOKEN", "missing access token")
			return
		}

		s.mu.Lock()
		d, known := s.tokens[token]
		var fail *failure
		if known && len(s.failures) > 0 {
			f := s.failures[0]
			s.failures = s.failures[1:]
			fail = &f
		}
		s.mu.Unlock()

		if !known {
			writeError(w, http.StatusUnauthorized, "M_UNKNOWN_TOKEN", "unknown access token")
			return
		}
		if fail != nil {
			writeError(w, fail.status, fail.code, "injected failure")
			return
		}
		next(w, r, d)
	}
}

func (s *Server) handleWhoAmI(w http.ResponseWriter, r *http.Request, d *device) {
	writeJSON(w, http.StatusOK, map[string]string{
		"user_id":   d.userID,
		"device_id": d.deviceID,
	})
}

type keysUploadBody struct {
	DeviceKeys  *domain.DeviceKeys       `json:"device_keys"`
	OneTimeKeys domain.SignedOneTimeKeys `json:"one_time_keys"`
}

func (s *Server) handleKeysUpload(w http.ResponseWriter, r *http.Request, d *device) {
	var body keysUploadBody
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestSize)).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "M_BAD_JSON", err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if body.DeviceKeys != nil {
		if body.DeviceKeys.UserID != d.userID || body.DeviceKeys.DeviceID != d.deviceID {
			writeError(w, http.StatusBadRequest, "M_INVALID_PARAM", "device_keys do not match the authenticated device")
			return
		}
		keys := *body.DeviceKeys
		d.deviceKeys = &keys
		s.logger.Info("stored device keys", "user_id", d.userID, "device_id", d.deviceID)
	}

	for id, key := range body.OneTimeKeys {
		if _, _, ok := strings.Cut(id, ":"); !ok {
			writeError(w, http.StatusBadRequest, "M_INVALID_PARAM", fmt.Sprintf("one-time key id %q has no algorithm", id))
			return
		}
		if existing, ok := d.oneTimeKeys[id]; ok && existing.Key != key.Key {
			writeError(w, http.StatusBadRequest, "M_INVALID_PARAM", fmt.Sprintf("one-time key %s already exists", id))
			return
		}
	}
	for id, key := range body.OneTimeKeys {
		d.oneTimeKeys[id] = key
	}
	if len(body.OneTimeKeys) > 0 {
		s.logger.Info("stored one-time keys", "device_id", d.deviceID, "count", len(body.OneTimeKeys))
	}

	writeJSON(w, http.StatusOK, map[string]any{"one_time_key_counts": d.counts()})
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request, _ *device) {
	roomID := r.PathValue("roomID")
	eventType := r.PathValue("eventType")
	stateKey := r.PathValue("stateKey")

	s.mu.Lock()
	room, ok := s.rooms[roomID]
	var content []byte
	if ok {
		content, ok = room[eventType+"\x00"+stateKey]
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "M_NOT_FOUND", "Event not found.")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

func (s *Server) handlePutState(w http.ResponseWriter, r *http.Request, _ *device) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxRequestSize))
	if err != nil || !json.Valid(raw) {
		writeError(w, http.StatusBadRequest, "M_BAD_JSON", "state content must be JSON")
		return
	}

	s.mu.Lock()
	s.setRoomStateLocked(r.PathValue("roomID"), r.PathValue("eventType"), r.PathValue("stateKey"), raw)
	eventID := fmt.Sprintf("$event%d", s.events)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"event_id": eventID})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"errcode": code, "error": message})
}
