package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/matches/{matchID}/teams/{teamID}/roster", handler.GetRoster)
	mux.HandleFunc("PUT /v1/matches/{matchID}/teams/{teamID}/roster", handler.SaveRoster)
	mux.HandleFunc("POST /v1/matches/{matchID}/teams/{teamID}/roster/lock", handler.LockRoster)

	mux.HandleFunc("POST /v1/matches/{matchID}/sanctions", handler.RecordSanction)
	mux.HandleFunc("GET /v1/matches/{matchID}/sanctions", handler.ListSanctions)
	mux.HandleFunc("GET /v1/matches/{matchID}/sanctions/available", handler.AvailableSeverities)
	mux.HandleFunc("GET /v1/matches/{matchID}/sanctions/most-recent", handler.MostRecentSanction)

	mux.HandleFunc("GET /v1/calls/{callID}/sets/{setID}/rotation", handler.GetCurrentRotation)
	mux.HandleFunc("POST /v1/calls/{callID}/sets/{setID}/rotation/substitutions", handler.ApplySubstitution)
	mux.HandleFunc("POST /v1/calls/{callID}/sets/{setID}/rotation/lock", handler.LockRotation)
	mux.HandleFunc("GET /v1/calls/{callID}/sets/{setID}/rotation/index", handler.GetRotationIndex)

	mux.HandleFunc("POST /v1/games/{gameID}/injuries", handler.SubmitInjuryReport)
	mux.HandleFunc("GET /v1/games/{gameID}/injuries", handler.ListInjuries)
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/audit", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunAudit)))
}
