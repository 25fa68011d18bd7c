package httpapi

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"talentmatch-engine/internal/config"
	"talentmatch-engine/internal/secrets"
)

type SecretsHandler struct {
	CfgVal *atomic.Value // stores config.Config
}

type setGeocoderTokenReq struct {
	Token string `json:"token"`
}

func (h SecretsHandler) SetGeocoderToken(w http.ResponseWriter, r *http.Request) {
	var req setGeocoderTokenReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	cfg := h.CfgVal.Load().(config.Config)
	if err := secrets.SetGeocoderToken(secrets.GeocoderKeyringAccount(cfg), req.Token); err != nil {
		http.Error(w, "failed to store token: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
