package http

import (
	"errors"
	"net/http"

	"github.com/azizikri/beat-market/internal/domain"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListBeats(w http.ResponseWriter, r *http.Request) {
	beats, err := h.deps.Catalog.ListBeats(r.Context())
	if err != nil {
		writeServerError(w, r, err, "failed to list beats")
		return
	}
	writeJSON(w, http.StatusOK, beats)
}

func (h *Handler) GetBeat(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid beat id")
		return
	}

	beat, err := h.deps.Catalog.GetBeat(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrAssetNotFound) {
			writeError(w, http.StatusNotFound, "Beat not found")
			return
		}
		writeServerError(w, r, err, "failed to get beat")
		return
	}
	writeJSON(w, http.StatusOK, beat)
}

func (h *Handler) ListPacks(w http.ResponseWriter, r *http.Request) {
	packs, err := h.deps.Catalog.ListPacks(r.Context())
	if err != nil {
		writeServerError(w, r, err, "failed to list beat packs")
		return
	}
	writeJSON(w, http.StatusOK, packs)
}

func (h *Handler) GetPack(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid pack id")
		return
	}

	pack, err := h.deps.Catalog.GetPack(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrAssetNotFound) {
			writeError(w, http.StatusNotFound, "Beat pack not found")
			return
		}
		writeServerError(w, r, err, "failed to get beat pack")
		return
	}
	writeJSON(w, http.StatusOK, pack)
}

func (h *Handler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.deps.Catalog.ListPurchases(r.Context(), principal(r).UserID)
	if err != nil {
		writeServerError(w, r, err, "failed to list purchases")
		return
	}
	writeJSON(w, http.StatusOK, purchases)
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	assetID, err := idParam(r, "assetID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid asset id")
		return
	}
	assetType := domain.AssetType(chi.URLParam(r, "assetType"))

	signed, err := h.deps.Assets.Download(r.Context(), principal(r), assetType, assetID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAssetNotFound), errors.Is(err, domain.ErrObjectNotFound):
			writeError(w, http.StatusNotFound, "Asset not found")
		case errors.Is(err, domain.ErrNotOwned):
			writeError(w, http.StatusForbidden, "You do not own this asset")
		default:
			writeServerError(w, r, err, "failed to create download link")
		}
		return
	}
	writeJSON(w, http.StatusOK, signed)
}
