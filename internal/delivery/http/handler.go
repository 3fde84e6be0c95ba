package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/azizikri/beat-market/internal/auth"
	"github.com/azizikri/beat-market/internal/domain"
	"github.com/azizikri/beat-market/internal/storage"
	"github.com/azizikri/beat-market/internal/usecase"
	"github.com/go-chi/chi/v5"
)

type PromoAdmin interface {
	CreatePromo(ctx context.Context, in usecase.CreatePromoInput) (*domain.PromoCode, error)
	GeneratePromos(ctx context.Context, in usecase.GeneratePromoInput) ([]*domain.PromoCode, error)
	ListPromos(ctx context.Context, limit, offset int) ([]*domain.PromoCode, error)
	GetPromo(ctx context.Context, id int64) (*domain.PromoDetails, error)
	UpdatePromo(ctx context.Context, id int64, patch usecase.PromoPatch) (*domain.PromoCode, error)
	DeletePromo(ctx context.Context, id int64) error
}

type Catalog interface {
	ListBeats(ctx context.Context) ([]domain.Beat, error)
	GetBeat(ctx context.Context, id int64) (*domain.Beat, error)
	ListPacks(ctx context.Context) ([]domain.BeatPack, error)
	GetPack(ctx context.Context, id int64) (*domain.BeatPack, error)
	ListPurchases(ctx context.Context, userID int64) ([]domain.Purchase, error)
}

type Assets interface {
	Download(ctx context.Context, p domain.Principal, assetType domain.AssetType, assetID int64) (*domain.SignedURL, error)
	Resolve(ctx context.Context, p domain.Principal, logicalPath string) (storage.Location, error)
	Sign(ctx context.Context, loc storage.Location) (*domain.SignedURL, error)
	Open(ctx context.Context, loc storage.Location) (*storage.Object, error)
	OpenSigned(ctx context.Context, bucket, key, expires, sig string) (*storage.Object, storage.Location, error)
}

// Deps wires the handler. Checks are run by /ready, keyed by dependency name.
type Deps struct {
	Promos        usecase.PromoGateway
	Admin         PromoAdmin
	Catalog       Catalog
	Assets        Assets
	Tokens        *auth.Tokens
	SessionCookie string
	Checks        map[string]func(context.Context) error
}

type Handler struct {
	deps Deps
}

func NewHandler(deps Deps) *Handler {
	return &Handler{deps: deps}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)

	r.Get(storage.SignedPathPrefix+"{bucket}/*", h.ServeSigned)

	r.Route("/api", func(r chi.Router) {
		r.Use(h.Authenticate)

		r.Get("/beats", h.ListBeats)
		r.Get("/beats/{id}", h.GetBeat)
		r.Get("/packs", h.ListPacks)
		r.Get("/packs/{id}", h.GetPack)

		r.Group(func(r chi.Router) {
			r.Use(RequireUser)

			r.Post("/promo/validate", h.ValidatePromo)
			r.Post("/promo/redeem", h.RedeemPromo)
			r.Get("/purchases", h.ListPurchases)
			r.Get("/downloads/{assetType}/{assetID}", h.Download)
			r.Get("/files/*", h.ServeFile)
		})

		r.Route("/admin/promos", func(r chi.Router) {
			r.Use(RequireAdmin)

			r.Get("/", h.ListPromos)
			r.Post("/", h.CreatePromo)
			r.Post("/generate", h.GeneratePromos)
			r.Get("/{id}", h.GetPromo)
			r.Patch("/{id}", h.UpdatePromo)
			r.Delete("/{id}", h.DeletePromo)
		})
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	for name, check := range h.deps.Checks {
		if err := check(r.Context()); err != nil {
			slog.Warn("readiness check failed", "dependency", name, "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "dependency": name})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeServerError logs err and answers with a generic message.
func writeServerError(w http.ResponseWriter, r *http.Request, err error, message string) {
	slog.Error(message, "method", r.Method, "path", r.URL.Path, "user_id", principal(r).UserID, "error", err)
	writeError(w, http.StatusInternalServerError, message)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v)
}

var errBadID = errors.New("invalid id")

func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadID
	}
	return id, nil
}

func principal(r *http.Request) domain.Principal {
	p, _ := auth.FromContext(r.Context())
	return p
}
