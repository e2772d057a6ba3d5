package main

import (
	"net/http"

	"bakehound/internal/app/bakeries"
	"bakehound/internal/app/chat"
	"bakehound/internal/app/favorites"
	"bakehound/internal/app/ratings"
	"bakehound/internal/app/scraping"
	"bakehound/internal/app/users"
	"bakehound/internal/auth"
	"bakehound/internal/http/middleware"
	"bakehound/internal/httpapi"
	"bakehound/internal/scrape"
	"bakehound/internal/store"
)

func newHTTPHandler(cfg Config, dataStore *store.Store) http.Handler {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	userSvc := users.New(dataStore, tokens)
	bakerySvc := bakeries.New(dataStore)
	favoritesSvc := favorites.New(dataStore)
	ratingsSvc := ratings.New(dataStore)

	collector := scrape.New(cfg.ScrapeSourceURL)
	scrapingSvc := scraping.New(collector, dataStore, cfg.ScrapeSheetURL)

	chatSvc := chat.New(cfg.ChatWebhookURL)

	api := httpapi.New(userSvc, bakerySvc, favoritesSvc, ratingsSvc, scrapingSvc, chatSvc, tokens)

	handler := middleware.CORS(cfg.AllowedOrigins)(api.Routes())
	handler = middleware.RequestLogging()(handler)
	handler = middleware.Recovery()(handler)
	return handler
}
