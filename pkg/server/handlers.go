package server

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/surveycloud/pkg/buildinfo"
	"github.com/matzehuels/surveycloud/pkg/errors"
	"github.com/matzehuels/surveycloud/pkg/pipeline"
	"github.com/matzehuels/surveycloud/pkg/survey"
)

type responseRequest struct {
	Question string `json:"question"`
	Text     string `json:"text"`
}

type responseList struct {
	Responses []survey.Response `json:"responses"`
	Count     int               `json:"count"`
}

type healthBody struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthBody{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.counters.Snapshot())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	responses, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	page := indexPage{
		Title:    s.title,
		Stats:    survey.ComputeStats(responses, survey.Size(s.store)),
		Recent:   recent(responses, 5),
		Saved:    r.URL.Query().Get("saved") == "1",
		Colormap: s.defaults.Colormap,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, page); err != nil {
		s.logger.Error("render index", "err", err)
	}
}

func (s *Server) handleListResponses(w http.ResponseWriter, r *http.Request) {
	responses, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if responses == nil {
		responses = []survey.Response{}
	}
	s.writeJSON(w, http.StatusOK, responseList{Responses: responses, Count: len(responses)})
}

func (s *Server) handleCreateResponse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	req, isForm, err := decodeResponse(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp, err := survey.NewResponse(req.Question, req.Text, time.Now())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.Append(r.Context(), resp); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("response saved", "id", resp.ID, "chars", len([]rune(resp.Text)))

	if isForm {
		http.Redirect(w, r, "/?saved=1", http.StatusSeeOther)
		return
	}
	s.writeJSON(w, http.StatusCreated, resp)
}

func decodeResponse(r *http.Request) (responseRequest, bool, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		var req responseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, false, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
		}
		return req, false, nil
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseForm(); err != nil {
			return responseRequest{}, true, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse form")
		}
		return responseRequest{Question: r.PostFormValue("question"), Text: r.PostFormValue("text")}, true, nil
	default:
		return responseRequest{}, false, errors.New(errors.ErrCodeInvalidInput, "unsupported content type %q", mediaType)
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	responses, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, survey.ComputeStats(responses, survey.Size(s.store)))
}

func (s *Server) handleCloud(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(chi.URLParam(r, "format"))
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeNotFound, err, "no such cloud format"))
		return
	}

	opts, err := cloudOptions(s.defaults, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts.Formats = []string{format}

	responses, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts.Text = survey.Corpus(responses)

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Words-Placed", strconv.Itoa(result.Stats.Placed))
	w.Header().Set("X-Words-Dropped", strconv.Itoa(result.Stats.Dropped))
	if r.URL.Query().Get("download") == "1" {
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="wordcloud.%s"`, format))
	}
	_, _ = w.Write(result.Artifacts[format])
}

// cloudOptions applies query parameters on top of the server defaults.
func cloudOptions(base pipeline.Options, r *http.Request) (pipeline.Options, error) {
	opts := base
	opts.ExtraStopwords = append([]string(nil), base.ExtraStopwords...)
	q := r.URL.Query()

	if v := q.Get("bg"); v != "" {
		opts.Background = v
	}
	if v := q.Get("cmap"); v != "" {
		opts.Colormap = strings.ToLower(v)
	}
	if v := q.Get("font"); v != "" {
		opts.Font = strings.ToLower(v)
	}
	if v := q.Get("stopwords"); v != "" {
		opts.ExtraStopwords = append(opts.ExtraStopwords, strings.Split(v, ",")...)
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"max_words", &opts.MaxWords},
		{"min_font_size", &opts.MinFontSize},
		{"max_font_size", &opts.MaxFontSize},
		{"width", &opts.Width},
		{"height", &opts.Height},
		{"margin", &opts.Margin},
		{"scale", &opts.Scale},
	}
	for _, p := range ints {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "%s must be an integer, got %q", p.name, v)
		}
		*p.dst = n
	}

	if v := q.Get("relative_scaling"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "relative_scaling must be a number, got %q", v)
		}
		opts.RelativeScaling = pipeline.Float(f)
	}
	if v := q.Get("seed"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "seed must be a non-negative integer, got %q", v)
		}
		opts.Seed = n
	}
	if v := q.Get("no_rotate"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "no_rotate must be a boolean, got %q", v)
		}
		opts.NoRotate = b
	}
	return opts, nil
}

func recent(responses []survey.Response, n int) []survey.Response {
	out := make([]survey.Response, 0, n)
	for i := len(responses) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, responses[i])
	}
	return out
}

// =============================================================================
// Response Helpers
// =============================================================================

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, errorBody{Error: errors.UserMessage(err), Code: string(errors.GetCode(err))})
}
