package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/websift/websift"
)

// Server exposes the scraping and analysis services over a REST API.
type Server struct {
	echo *echo.Echo

	Fetcher     websift.Fetcher
	Analyzer    websift.Analyzer
	Scraper     websift.ScrapeService
	DeepScraper websift.DeepScrapeService
	Sessions    websift.SessionService
	Profiles    websift.ProfileService

	Logger *slog.Logger
}

// NewServer creates a Server with all routes registered. The service
// fields must be set before handling requests.
func NewServer() *Server {
	s := &Server{echo: echo.New()}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(middleware.Recover())

	api := s.echo.Group("/api")
	api.GET("/health", s.handleHealth)
	api.POST("/analyze", s.handleAnalyze)
	api.POST("/scrape", s.handleScrape)
	api.POST("/deep-scrape", s.handleDeepScrape)

	api.GET("/sessions", s.handleListSessions)
	api.GET("/sessions/:id", s.handleGetSession)
	api.DELETE("/sessions", s.handleDeleteSessions)

	api.GET("/profiles", s.handleListProfiles)
	api.GET("/profiles/stats", s.handleProfileStats)
	api.GET("/profiles/domain/:domain", s.handleGetProfileByDomain)
	api.GET("/profiles/:id", s.handleGetProfile)
	api.DELETE("/profiles/:id", s.handleDeleteProfile)
	api.DELETE("/profiles", s.handleDeleteProfiles)

	return s
}

// Open starts the server on addr and blocks until shutdown.
func (s *Server) Open(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP dispatches a request through the server's router. It lets
// the server be mounted or exercised directly with httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// httpStatus maps application error codes to HTTP status codes.
func httpStatus(err error) int {
	switch websift.ErrorCode(err) {
	case websift.EINVALID:
		return http.StatusBadRequest
	case websift.ENOTFOUND:
		return http.StatusNotFound
	case websift.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorResponse writes err as a JSON error body with the mapped status.
func (s *Server) errorResponse(c echo.Context, err error) error {
	status := httpStatus(err)
	if status == http.StatusInternalServerError && s.Logger != nil {
		s.Logger.Error("http error", "path", c.Path(), "error", err)
	}
	return c.JSON(status, map[string]string{"error": websift.ErrorMessage(err)})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type analyzeRequest struct {
	URL         string `json:"url"`
	SaveProfile bool   `json:"save_profile"`
}

type analyzeResponse struct {
	Analysis *websift.StructureAnalysis `json:"analysis"`
	Profile  *websift.SiteProfile       `json:"profile,omitempty"`
}

func (s *Server) handleAnalyze(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return s.errorResponse(c, websift.Errorf(websift.EINVALID, "invalid request body"))
	}
	if req.URL == "" {
		return s.errorResponse(c, websift.Errorf(websift.EINVALID, "url is required"))
	}

	html, finalURL, err := s.Fetcher.Fetch(c.Request().Context(), req.URL)
	if err != nil {
		return s.errorResponse(c, websift.Errorf(websift.EUNAVAILABLE, "failed to fetch %s: %v", req.URL, err))
	}

	analysis := s.Analyzer.Analyze(html, finalURL)

	resp := analyzeResponse{Analysis: analysis}
	if req.SaveProfile && analysis.Recommendations.BestMainContent != "" {
		profile, err := websift.BuildProfile(analysis)
		if err != nil {
			return s.errorResponse(c, err)
		}
		if err := s.Profiles.SaveProfile(c.Request().Context(), profile); err != nil {
			return s.errorResponse(c, err)
		}
		resp.Profile = profile
	}

	return c.JSON(http.StatusOK, resp)
}

type scrapeRequest struct {
	websift.ScrapingConfig
	Save bool `json:"save"`
}

func (s *Server) handleScrape(c echo.Context) error {
	var req scrapeRequest
	if err := c.Bind(&req); err != nil {
		return s.errorResponse(c, websift.Errorf(websift.EINVALID, "invalid request body"))
	}

	session, err := s.Scraper.Scrape(c.Request().Context(), req.ScrapingConfig)
	if err != nil {
		return s.errorResponse(c, err)
	}

	if req.Save && s.Sessions != nil {
		if err := s.Sessions.SaveSession(c.Request().Context(), session); err != nil {
			return s.errorResponse(c, err)
		}
	}

	return c.JSON(http.StatusOK, session)
}

type deepScrapeRequest struct {
	websift.DeepScrapeConfig
	Save bool `json:"save"`
}

func (s *Server) handleDeepScrape(c echo.Context) error {
	var req deepScrapeRequest
	if err := c.Bind(&req); err != nil {
		return s.errorResponse(c, websift.Errorf(websift.EINVALID, "invalid request body"))
	}

	session, err := s.DeepScraper.DeepScrape(c.Request().Context(), req.DeepScrapeConfig)
	if err != nil {
		return s.errorResponse(c, err)
	}

	if req.Save && s.Sessions != nil {
		if err := s.Sessions.SaveSession(c.Request().Context(), session); err != nil {
			return s.errorResponse(c, err)
		}
	}

	return c.JSON(http.StatusOK, session)
}

func (s *Server) handleListSessions(c echo.Context) error {
	filter := websift.SessionFilter{}
	if v := c.QueryParam("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			filter.Limit = limit
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil {
			filter.Offset = offset
		}
	}

	sessions, err := s.Sessions.FindSessions(c.Request().Context(), filter)
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, sessions)
}

func (s *Server) handleGetSession(c echo.Context) error {
	session, err := s.Sessions.FindSessionByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

func (s *Server) handleDeleteSessions(c echo.Context) error {
	if err := s.Sessions.DeleteSessions(c.Request().Context()); err != nil {
		return s.errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleListProfiles(c echo.Context) error {
	filter := websift.ProfileFilter{}
	if v := c.QueryParam("domain"); v != "" {
		filter.Domain = &v
	}
	if v := c.QueryParam("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			filter.Limit = limit
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil {
			filter.Offset = offset
		}
	}

	profiles, err := s.Profiles.FindProfiles(c.Request().Context(), filter)
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, profiles)
}

func (s *Server) handleProfileStats(c echo.Context) error {
	stats, err := s.Profiles.Stats(c.Request().Context())
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) handleGetProfile(c echo.Context) error {
	profile, err := s.Profiles.FindProfileByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

func (s *Server) handleGetProfileByDomain(c echo.Context) error {
	profile, err := s.Profiles.FindProfileByDomain(c.Request().Context(), c.Param("domain"))
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

func (s *Server) handleDeleteProfile(c echo.Context) error {
	if err := s.Profiles.DeleteProfile(c.Request().Context(), c.Param("id")); err != nil {
		return s.errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleDeleteProfiles(c echo.Context) error {
	if err := s.Profiles.DeleteProfiles(c.Request().Context()); err != nil {
		return s.errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
