// Package web serves the ghost-following form and CSV download.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ifatinha/ghost-following/backend/internal/constants"
	"github.com/ifatinha/ghost-following/backend/internal/ghost"
	apperrors "github.com/ifatinha/ghost-following/backend/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

// GhostFinder computes the ghost set for a user
type GhostFinder interface {
	GhostFollowing(ctx context.Context, username string) (ghost.Set, error)
}

// Exporter persists a ghost list
type Exporter interface {
	Export(logins []string) error
	Path() string
}

// Handler holds the dependencies of the web routes
type Handler struct {
	finder   GhostFinder
	exporter Exporter
	logger   *zap.Logger
}

// NewHandler creates a new web handler
func NewHandler(finder GhostFinder, exporter Exporter, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{finder: finder, exporter: exporter, logger: logger}
}

type indexPage struct {
	Username  string
	Usernames []string
	Searched  bool
	Error     string
}

// Register mounts the routes and the page template on router
func (h *Handler) Register(router *gin.Engine) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/*.html"))
	router.SetHTMLTemplate(tmpl)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/", h.index)
	router.POST("/", h.search)
	router.GET("/download", h.download)
}

func (h *Handler) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", indexPage{})
}

func (h *Handler) search(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	if username == "" {
		c.HTML(http.StatusBadRequest, "index.html", indexPage{Error: "Informe um nome de usuário."})
		return
	}

	ghosts, err := h.finder.GhostFollowing(c.Request.Context(), username)
	if err != nil {
		h.logger.Error("Failed to compute ghost following", zap.String("username", username), zap.Error(err))
		status, msg := errorResponse(err)
		c.HTML(status, "index.html", indexPage{Username: username, Error: msg})
		return
	}

	usernames := ghosts.Sorted()
	if err := h.exporter.Export(usernames); err != nil {
		h.logger.Error("Failed to export ghost following", zap.String("username", username), zap.Error(err))
		c.HTML(http.StatusInternalServerError, "index.html", indexPage{Username: username, Error: "Falha ao salvar o CSV."})
		return
	}

	c.HTML(http.StatusOK, "index.html", indexPage{
		Username:  username,
		Usernames: usernames,
		Searched:  true,
	})
}

func (h *Handler) download(c *gin.Context) {
	path := h.exporter.Path()
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no export available"})
		return
	}
	c.FileAttachment(path, constants.DownloadFilename)
}

// errorResponse maps a pipeline failure to a status and a user-facing message
func errorResponse(err error) (int, string) {
	var httpErr *apperrors.HTTPError
	switch {
	case errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound:
		return http.StatusNotFound, "Usuário não encontrado."
	case errors.As(err, &httpErr) && (httpErr.StatusCode == http.StatusForbidden || httpErr.StatusCode == http.StatusTooManyRequests):
		return http.StatusBadGateway, "Limite de requisições da API do GitHub atingido."
	case apperrors.IsErrorType(err, apperrors.ErrorTypeGitHub), apperrors.IsErrorType(err, apperrors.ErrorTypeData):
		return http.StatusBadGateway, "Resposta inválida da API do GitHub."
	case apperrors.IsErrorType(err, apperrors.ErrorTypeInput):
		return http.StatusBadRequest, "Informe um nome de usuário."
	default:
		return http.StatusBadGateway, "Não foi possível consultar a API do GitHub."
	}
}
