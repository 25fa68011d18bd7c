package httpapi

import "net/http"

// NewMux returns the raw mux so main() can still attach /shutdown (needs srv+token).
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Search
	srh := SearchHandler{Engine: d.Engine, Hub: d.Hub, Drafts: d.Drafts, CfgVal: d.CfgVal, Log: d.Log}
	mux.HandleFunc("/search", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: srh.Run,
	}))

	// Draft criteria per session
	crh := CriteriaHandler{Drafts: d.Drafts, CfgVal: d.CfgVal, Resolve: d.Resolve, Debounce: d.Debounce}
	mux.HandleFunc("/criteria", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: crh.Create,
	}))
	mux.HandleFunc("/criteria/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:    crh.GetByPath,
		http.MethodPut:    crh.PutByPath,
		http.MethodDelete: crh.DeleteByPath,
	}))

	// Listings
	lh := ListingsHandler{DB: d.DB, Hub: d.Hub}
	mux.HandleFunc("/listings", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: lh.Create,
	}))
	mux.HandleFunc("/listings/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:    lh.GetByPath,
		http.MethodDelete: lh.DeleteByPath,
	}))

	// Gazetteer
	gh := GazetteerHandler{DB: d.DB, Hub: d.Hub, Resolve: d.Resolve}
	mux.HandleFunc("/gazetteer", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: gh.Lookup,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))

	// Secrets (use cfgVal, NOT a snapshot cfg)
	sh := SecretsHandler{CfgVal: d.CfgVal}
	mux.HandleFunc("/api/secrets/geocoder", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SetGeocoderToken,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	hh := HealthHandler{Hub: d.Hub}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	return mux
}
