package http

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/azizikri/beat-market/internal/domain"
	"github.com/azizikri/beat-market/internal/storage"
	"github.com/go-chi/chi/v5"
)

const publicCacheControl = "public, max-age=3600"

// ServeFile streams an object addressed by its logical path, or returns a
// signed URL for it when called with ?mode=signed.
func (h *Handler) ServeFile(w http.ResponseWriter, r *http.Request) {
	logicalPath, err := wildcardPath(r)
	if err != nil {
		writeFileError(w, r, domain.ErrObjectNotFound)
		return
	}
	loc, err := h.deps.Assets.Resolve(r.Context(), principal(r), logicalPath)
	if err != nil {
		writeFileError(w, r, err)
		return
	}

	if r.URL.Query().Get("mode") == "signed" {
		signed, err := h.deps.Assets.Sign(r.Context(), loc)
		if err != nil {
			writeFileError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, signed)
		return
	}

	obj, err := h.deps.Assets.Open(r.Context(), loc)
	if err != nil {
		writeFileError(w, r, err)
		return
	}
	cacheControl := "private, no-store"
	if loc.Bucket.Public {
		cacheControl = publicCacheControl
	}
	serveObject(w, r, obj, cacheControl)
}

// ServeSigned serves a signed URL. It needs no session.
func (h *Handler) ServeSigned(w http.ResponseWriter, r *http.Request) {
	key, err := wildcardPath(r)
	if err != nil {
		writeFileError(w, r, domain.ErrObjectNotFound)
		return
	}
	q := r.URL.Query()
	obj, loc, err := h.deps.Assets.OpenSigned(r.Context(), chi.URLParam(r, "bucket"), key, q.Get("expires"), q.Get("sig"))
	if err != nil {
		writeFileError(w, r, err)
		return
	}
	cacheControl := "private, max-age=60"
	if loc.Bucket.Public {
		cacheControl = publicCacheControl
	}
	serveObject(w, r, obj, cacheControl)
}

// wildcardPath returns the decoded "*" route param. chi matches against
// RawPath when the request carries one, leaving the param escaped.
func wildcardPath(r *http.Request) (string, error) {
	param := chi.URLParam(r, "*")
	if r.URL.RawPath == "" {
		return param, nil
	}
	return url.PathUnescape(param)
}

func serveObject(w http.ResponseWriter, r *http.Request, obj *storage.Object, cacheControl string) {
	defer obj.Body.Close()

	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("Cache-Control", cacheControl)
	http.ServeContent(w, r, obj.Name, obj.ModTime, obj.Body)
}

func writeFileError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownBucket), errors.Is(err, domain.ErrObjectNotFound):
		writeError(w, http.StatusNotFound, "File not found")
	case errors.Is(err, domain.ErrNotOwned):
		writeError(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, domain.ErrInvalidSignature):
		writeError(w, http.StatusForbidden, "Invalid signature")
	case errors.Is(err, domain.ErrSignatureExpired):
		writeError(w, http.StatusGone, "Link has expired")
	default:
		writeServerError(w, r, err, "failed to serve file")
	}
}
