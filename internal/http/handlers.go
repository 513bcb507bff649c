package http

import (
	"net/http"

	pagescmd "github.com/goliatone/go-legalnotices/internal/commands/pages"
	"github.com/goliatone/go-legalnotices/internal/resolution"
)

func (api *API) handleSettings(w http.ResponseWriter, r *http.Request) {
	view, err := api.notices.Settings(r.Context(), api.session(r))
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (api *API) handleStoreSettings(w http.ResponseWriter, r *http.Request) {
	form, err := parseForm(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	result, err := api.notices.StoreSettings(r.Context(), api.session(r), form)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	if len(result.Retain) > 0 && api.retain != nil {
		api.retain(w, r, result.Retain)
	}
	http.Redirect(w, r, result.RedirectURL, http.StatusMovedPermanently)
}

func (api *API) handleListPages(w http.ResponseWriter, r *http.Request) {
	view, err := api.notices.ListPages(r.Context(), api.session(r), r.PathValue("lang"), r.PathValue("name"))
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (api *API) handleChangePage(w http.ResponseWriter, r *http.Request) {
	form, err := parseForm(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	url, err := api.notices.ChangePage(r.Context(), api.session(r), form["sel_lang"], form["sel_page"])
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	http.Redirect(w, r, url, http.StatusMovedPermanently)
}

func (api *API) handleEditPage(w http.ResponseWriter, r *http.Request) {
	form, err := parseForm(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	url, err := api.notices.EditPage(r.Context(), api.session(r), pagescmd.EditPageCommand{
		Name: form["cur_name"],
		Lang: form["cur_lang"],
		Body: form["page_body"],
		URL:  form["external_url"],
	})
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	http.Redirect(w, r, url, http.StatusMovedPermanently)
}

func (api *API) handleViewPage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := api.notices.ViewPage(r.Context(), api.session(r), name)
		if err != nil {
			api.writeError(w, r, err)
			return
		}
		switch result.Outcome {
		case resolution.OutcomeRedirectNotFound:
			http.Redirect(w, r, result.RedirectURL, http.StatusFound)
		case resolution.OutcomeRedirectExternal:
			http.Redirect(w, r, result.RedirectURL, http.StatusMovedPermanently)
		default:
			writeJSON(w, http.StatusOK, result)
		}
	}
}
