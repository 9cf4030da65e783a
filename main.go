package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hazratullahh/eceomerce-jawad/config"
	"github.com/hazratullahh/eceomerce-jawad/controllers"
	"github.com/hazratullahh/eceomerce-jawad/database"
	"github.com/hazratullahh/eceomerce-jawad/services"
	"github.com/hazratullahh/eceomerce-jawad/translate"
	"github.com/hazratullahh/eceomerce-jawad/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Printf("mongo disconnect: %v", err)
		}
	}()
	if err := database.EnsureIndexes(ctx, client.Database(cfg.DatabaseName)); err != nil {
		log.Fatal(err)
	}
	store := database.NewMongoStore(client, cfg.DatabaseName, cfg.MongoTransactions)

	//seeding admin user
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := utils.SeedAdminUser(ctx, store.Users, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName); err != nil {
			log.Fatal(err)
		}
	} else {
		log.Println("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seeding")
	}

	translator := translate.New(translate.Options{
		URL:      cfg.Translate.URL,
		APIKey:   cfg.Translate.APIKey,
		Source:   cfg.Translate.Source,
		Interval: cfg.Translate.Interval,
		Burst:    cfg.Translate.Burst,
		Timeout:  cfg.Translate.Timeout,
		Cache:    translationCache(ctx, cfg),
	})

	images, closeImages, err := imageStore(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeImages()

	issuer := utils.TokenIssuer{
		AccessSecret:  []byte(cfg.JWTSecret),
		RefreshSecret: []byte(cfg.JWTRefreshSecret),
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
	}
	reconciler := services.NewReconciler(translator, cfg.Translate.Target)

	r := controllers.NewRouter(&controllers.App{
		Categories:     services.NewCategoryService(store.Categories, reconciler, images),
		Products:       services.NewProductService(store.Products, store.Categories, reconciler, images),
		Customers:      services.NewCustomerService(store.Customers, store.Tx),
		Users:          services.NewUserService(store.Users),
		Auth:           services.NewAuthService(store.Users, store.RefreshTokens, issuer),
		Dashboard:      services.NewDashboardService(store.Customers, store.Users),
		Images:         services.NewImageService(images, utils.NewImageValidator(cfg.MaxUploadBytes())),
		Issuer:         issuer,
		Cookie:         utils.CookieOptions{Secure: cfg.CookieSecure, Domain: cfg.CookieDomain},
		AllowedOrigins: cfg.AllowedOrigins,
		DefaultLimit:   cfg.DefaultReadQueryLimit,
		MaxLimit:       cfg.ReadQueryMaxLimit,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// translationCache returns nil when no Redis is configured or reachable.
func translationCache(ctx context.Context, cfg config.Config) translate.Cache {
	if cfg.RedisURL == "" {
		return nil
	}
	rdb, err := translate.DialRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Printf("translation cache disabled: %v", err)
		return nil
	}
	return translate.NewRedisCache(rdb, cfg.TranslationCacheTTL)
}

func imageStore(ctx context.Context, cfg config.Config) (services.ImageStore, func(), error) {
	switch cfg.ImageStore {
	case "r2":
		s, err := utils.NewR2Store(ctx, utils.R2Options{
			Bucket:          cfg.R2.Bucket,
			AccessKeyID:     cfg.R2.AccessKeyID,
			SecretAccessKey: cfg.R2.SecretAccessKey,
			Endpoint:        cfg.R2.Endpoint,
			PublicDomain:    cfg.R2.PublicDomain,
			Folder:          cfg.ImageFolder,
		})
		return s, func() {}, err
	default:
		s, err := utils.NewGCSStore(ctx, cfg.GCS.Bucket, cfg.GCS.CredentialsFile, cfg.ImageFolder)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {
			if err := s.Close(); err != nil {
				log.Printf("gcs close: %v", err)
			}
		}, nil
	}
}
