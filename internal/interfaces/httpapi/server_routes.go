package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedMarketRoutes(mux, handler, verifier)
	registerAuthorizedLineupRoutes(mux, handler, verifier)
	registerAuthorizedLeagueRoutes(mux, handler, verifier)
}

func registerAuthorizedMarketRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/players/buy", RequireAuth(verifier, http.HandlerFunc(handler.BuyPlayer)))
	mux.Handle("POST /v1/players/sell/market", RequireAuth(verifier, http.HandlerFunc(handler.SellPlayerToMarket)))
	mux.Handle("POST /v1/players/sell/offer", RequireAuth(verifier, http.HandlerFunc(handler.CreateOffer)))
	mux.Handle("POST /v1/players/offer/accept/{offerID}", RequireAuth(verifier, http.HandlerFunc(handler.AcceptOffer)))
	mux.Handle("POST /v1/players/offer/reject/{offerID}", RequireAuth(verifier, http.HandlerFunc(handler.RejectOffer)))
	mux.Handle("GET /v1/players/user/{leagueID}", RequireAuth(verifier, http.HandlerFunc(handler.ListMyPlayers)))
	mux.Handle("GET /v1/transactions/{leagueID}", RequireAuth(verifier, http.HandlerFunc(handler.ListTransactions)))
}

func registerAuthorizedLineupRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/players/lineup", RequireAuth(verifier, http.HandlerFunc(handler.SetStarter)))
	mux.Handle("GET /v1/players/lineup/{leagueID}", RequireAuth(verifier, http.HandlerFunc(handler.GetLineup)))
	mux.Handle("GET /v1/players/lineup/{leagueID}/{matchday}", RequireAuth(verifier, http.HandlerFunc(handler.GetLineup)))
}

func registerAuthorizedLeagueRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/leagues/{leagueID}", RequireAuth(verifier, http.HandlerFunc(handler.GetLeague)))
	mux.Handle("GET /v1/leagues/{leagueID}/members", RequireAuth(verifier, http.HandlerFunc(handler.ListLeagueMembers)))
	mux.Handle("GET /v1/leagues/{leagueID}/players", RequireAuth(verifier, http.HandlerFunc(handler.ListMarketPlayers)))
	mux.Handle("GET /v1/leagues/{leagueID}/players/owners", RequireAuth(verifier, http.HandlerFunc(handler.ListOwnerships)))
	mux.Handle("GET /v1/leagues/{leagueID}/offers", RequireAuth(verifier, http.HandlerFunc(handler.ListOffers)))
	mux.Handle("GET /v1/leagues/{leagueID}/account", RequireAuth(verifier, http.HandlerFunc(handler.GetMyAccount)))
	mux.Handle("POST /v1/leagues/{leagueID}/account", RequireAuth(verifier, http.HandlerFunc(handler.ProvisionMyAccount)))
}
