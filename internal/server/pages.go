package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/raysh454/vulnscan-web/internal/history"
	"github.com/raysh454/vulnscan-web/internal/logging"
	"github.com/raysh454/vulnscan-web/internal/model"
	"github.com/raysh454/vulnscan-web/internal/resultcache"
	"github.com/raysh454/vulnscan-web/internal/results"
	"github.com/raysh454/vulnscan-web/internal/session"
	"github.com/raysh454/vulnscan-web/internal/submission"
)

type homeData struct {
	Form     submission.Snapshot
	Features []model.Feature
}

type resultData struct {
	ScanID string
	View   *results.View
}

type historyData struct {
	Page *history.Page
}

type pricingData struct {
	Tiers []PricingTier
	FAQ   []faq
}

// Home

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.renderHome(w, r, sessionFrom(r.Context()), http.StatusOK)
}

func (s *Server) renderHome(w http.ResponseWriter, r *http.Request, st *session.State, status int) {
	s.render(w, r, status, "home", page{
		Title: "Scan",
		Nav:   "scan",
		Width: "narrow",
		Data: homeData{
			Form:     st.Form.Snapshot(),
			Features: s.features(r.Context()),
		},
	})
}

func (s *Server) features(ctx context.Context) []model.Feature {
	info, err := s.api.FetchFeatures(ctx)
	if err != nil || info == nil || len(info.Features) == 0 {
		return staticFeatures
	}
	return info.Features
}

// handleSubmit applies the posted inputs to the session's form, then either
// switches mode or submits the scan. A successful scan redirects to the
// result route with the result attached as navigation state.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	st := sessionFrom(r.Context())
	if err := r.ParseForm(); err != nil {
		s.logger.Warn("parsing scan form", logging.Field{Key: "error", Value: err.Error()})
		s.renderHome(w, r, st, http.StatusBadRequest)
		return
	}

	if err := applyInputs(st.Form, r); err != nil {
		s.renderHome(w, r, st, http.StatusConflict)
		return
	}

	switch r.PostFormValue("action") {
	case "mode-url":
		s.switchMode(w, r, st, model.ScanKindURL)
		return
	case "mode-log":
		s.switchMode(w, r, st, model.ScanKindLog)
		return
	}

	// The scan outlives the browser request: a submission cannot be aborted.
	nav, err := st.Form.Submit(context.WithoutCancel(r.Context()))
	if err != nil {
		var serr *submission.Error
		switch {
		case errors.As(err, &serr):
			s.logger.Info("scan submission failed",
				logging.Field{Key: "request_id", Value: requestID(r.Context())},
				logging.Field{Key: "stage", Value: string(serr.Stage)})
			s.renderHome(w, r, st, http.StatusUnprocessableEntity)
		case errors.Is(err, submission.ErrInFlight):
			s.renderHome(w, r, st, http.StatusConflict)
		default:
			s.logger.Error("scan submission", logging.Field{Key: "error", Value: err.Error()})
			s.renderHome(w, r, st, http.StatusInternalServerError)
		}
		return
	}

	s.logger.Info("scan submitted", logging.Field{Key: "scan_id", Value: nav.State.ScanID}, logging.Field{Key: "kind", Value: string(nav.State.Kind)})
	st.Navigate(*nav)
	http.Redirect(w, r, nav.Path, http.StatusSeeOther)
}

func (s *Server) switchMode(w http.ResponseWriter, r *http.Request, st *session.State, mode model.ScanKind) {
	if err := st.Form.SetMode(mode); err != nil {
		s.renderHome(w, r, st, http.StatusConflict)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// applyInputs copies the fields present in the post onto the form. The
// premium checkbox is absent from the post when unchecked.
func applyInputs(f *submission.Form, r *http.Request) error {
	if _, ok := r.PostForm["url"]; ok {
		if err := f.SetURL(r.PostFormValue("url")); err != nil {
			return err
		}
	}
	if _, ok := r.PostForm["filename"]; ok {
		if err := f.SetLogFilename(r.PostFormValue("filename")); err != nil {
			return err
		}
	}
	if _, ok := r.PostForm["log"]; ok {
		if err := f.SetLogBody(r.PostFormValue("log")); err != nil {
			return err
		}
	}
	return f.SetPremium(r.PostFormValue("premium") == "on")
}

// Result

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	st := sessionFrom(r.Context())
	scanID := chi.URLParam(r, "scanId")

	nav := st.TakeNavigation(r.URL.Path)
	view := results.Resolve(r.Context(), nav, resultcache.NewSlot(s.store, st.ID), s.logger)
	if tab := r.URL.Query().Get("tab"); tab != "" {
		if err := view.Select(results.Tab(tab)); err != nil {
			s.logger.Debug("ignoring tab", logging.Field{Key: "tab", Value: tab})
		}
	}

	s.logger.Info("showing result",
		logging.Field{Key: "scan_id", Value: scanID},
		logging.Field{Key: "source", Value: string(view.Source)})
	s.render(w, r, http.StatusOK, "result", page{
		Title: "Scan Result",
		Data:  resultData{ScanID: scanID, View: view},
	})
}

// History

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	st := sessionFrom(r.Context())
	p := s.history.Load(r.Context())
	st.SetHistory(p)

	s.render(w, r, http.StatusOK, "history", page{
		Title: "Scan History",
		Nav:   "history",
		Data:  historyData{Page: p},
	})
}

// handleOpenHistory hands an entry of the last loaded history page to the
// result route without fetching it again.
func (s *Server) handleOpenHistory(w http.ResponseWriter, r *http.Request) {
	st := sessionFrom(r.Context())
	scanID := chi.URLParam(r, "scanId")

	nav, ok := st.History().Open(scanID)
	if !ok {
		s.logger.Debug("history entry not loaded", logging.Field{Key: "scan_id", Value: scanID})
		http.Redirect(w, r, "/scan-history", http.StatusSeeOther)
		return
	}
	st.Navigate(nav)
	http.Redirect(w, r, nav.Path, http.StatusSeeOther)
}

// Pricing

func (s *Server) handlePricing(w http.ResponseWriter, r *http.Request) {
	tiers := staticTiers()
	if info, err := s.api.FetchTiers(r.Context()); err == nil {
		tiers = overlayTiers(tiers, info)
	}
	s.render(w, r, http.StatusOK, "pricing", page{
		Title: "Pricing",
		Nav:   "pricing",
		Data:  pricingData{Tiers: tiers, FAQ: pricingFAQ},
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "notfound", page{Title: "Page Not Found", Width: "narrow"})
}
