// Package web serves the HTML surface: the history page, the submit action,
// and the clear action. Each handler checks a storage session out at entry
// and releases it on every exit path.
package web

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/briefd/briefd/ai/summary"
	"github.com/briefd/briefd/internal/profile"
	"github.com/briefd/briefd/store"
)

type Service struct {
	Profile    *profile.Profile
	Store      *store.Store
	Summarizer summary.Summarizer
}

func NewService(profile *profile.Profile, store *store.Store, summarizer summary.Summarizer) *Service {
	return &Service{
		Profile:    profile,
		Store:      store,
		Summarizer: summarizer,
	}
}

func (s *Service) Register(e *echo.Echo) {
	e.Renderer = newRenderer()
	e.GET("/", s.index)
	e.POST("/", s.submit)
	e.POST("/clear", s.clear)
}

// index is the idle read: no records are created, only displayed.
func (s *Service) index(c echo.Context) error {
	ctx := c.Request().Context()
	sess, err := s.Store.Acquire(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to open storage").SetInternal(err)
	}
	defer sess.Close()

	return s.renderHistory(ctx, c, sess, "")
}

func (s *Service) submit(c echo.Context) error {
	ctx := c.Request().Context()
	sess, err := s.Store.Acquire(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to open storage").SetInternal(err)
	}
	defer sess.Close()

	// An absent form field is an empty prompt, never a nil.
	prompt := c.FormValue("prompt")

	if strings.TrimSpace(prompt) == "" && s.Profile.EmptyPrompts == profile.EmptyPromptsReject {
		return s.renderHistory(ctx, c, sess, "Nothing to summarize.")
	}

	resp, err := s.Summarizer.Summarize(ctx, &summary.Request{
		Content: prompt,
		MaxLen:  s.Profile.SummaryMaxLen,
		MinLen:  s.Profile.SummaryMinLen,
	})
	if err != nil {
		summarizeFailures.Inc()
		return echo.NewHTTPError(http.StatusBadGateway, "summarization failed").SetInternal(err)
	}
	summarizeDuration.Observe(resp.Latency.Seconds())

	// The exchange is constructed only after the model call succeeded, so a
	// partial row can never become visible.
	if _, err := sess.CreateExchange(ctx, &store.CreateExchange{
		Prompt:   prompt,
		Response: resp.Summary,
	}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save exchange").SetInternal(err)
	}
	exchangesCreated.Inc()

	return s.renderHistory(ctx, c, sess, "")
}

// clear wipes the log and redirects to the idle read, a fresh request cycle.
func (s *Service) clear(c echo.Context) error {
	ctx := c.Request().Context()
	sess, err := s.Store.Acquire(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to open storage").SetInternal(err)
	}
	defer sess.Close()

	if err := sess.ClearExchanges(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to clear history").SetInternal(err)
	}
	exchangesCleared.Inc()

	return c.Redirect(http.StatusSeeOther, "/")
}

func (s *Service) renderHistory(ctx context.Context, c echo.Context, sess *store.Session, notice string) error {
	exchanges, err := sess.ListExchanges(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list exchanges").SetInternal(err)
	}

	views := make([]exchangeView, 0, len(exchanges))
	for _, exchange := range exchanges {
		views = append(views, exchangeView{
			ID:       exchange.ID,
			Prompt:   exchange.Prompt,
			Response: renderMarkdown(exchange.Response),
		})
	}

	return c.Render(http.StatusOK, "index.html", &indexData{
		Exchanges: views,
		Notice:    notice,
	})
}
