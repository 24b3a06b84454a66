package handlers

import (
	"tvicladmin/internal/config"
	"tvicladmin/internal/platform"
	"tvicladmin/internal/repos"
	"tvicladmin/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	AuthHandler      *AuthHandler
	WizardHandler    *WizardHandler
	MediaHandler     *MediaHandler
	PropertyHandler  *PropertyHandler
	AnalyticsHandler *AnalyticsHandler
	AdminHandler     *AdminHandler

	Auth  *services.AuthService
	Users *repos.UserRepo
}

func NewDeps(db *sqlx.DB, cfg config.Config, client *platform.Client) *Deps {
	userRepo := repos.NewUserRepo(db)
	draftRepo := repos.NewDraftRepo(db)

	authSvc := &services.AuthService{Users: userRepo}
	cache := services.NewCache(cfg.RedisAddr, cfg.RedisPass)
	wizardSvc := &services.WizardService{Drafts: draftRepo, MediaDir: cfg.MediaDir, Platform: client}
	propSvc := services.NewPropertyService(client, cache)
	analyticsSvc := &services.AnalyticsService{Platform: client, Cache: cache}

	return &Deps{
		AuthHandler:      &AuthHandler{Auth: authSvc},
		WizardHandler:    &WizardHandler{Wizards: wizardSvc},
		MediaHandler:     &MediaHandler{Wizards: wizardSvc},
		PropertyHandler:  &PropertyHandler{Props: propSvc},
		AnalyticsHandler: &AnalyticsHandler{Analytics: analyticsSvc},
		AdminHandler:     &AdminHandler{Users: userRepo},
		Auth:             authSvc,
		Users:            userRepo,
	}
}
