package main

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prakash023/portfolio/internal/config"
	"github.com/prakash023/portfolio/internal/hero"
)

//go:embed templates/*.html
var templateFS embed.FS

// Limits for on-demand hero snapshots.
const (
	maxSnapshotWidth  = 1920
	maxSnapshotHeight = 1080
	maxSnapshotFrames = 120
	snapshotCacheSize = 64
)

// Site is the composition root handed to every handler.
type Site struct {
	cfg    *config.Config
	store  *Store
	maps   MapProvider
	auth   *adminAuth
	now    func() time.Time
	heroes *snapshotCache
}

func newSite(cfg *config.Config, store *Store, auth *adminAuth) *Site {
	return &Site{
		cfg:    cfg,
		store:  store,
		maps:   LeafletProvider{},
		auth:   auth,
		now:    time.Now,
		heroes: newSnapshotCache(snapshotCacheSize),
	}
}

func loadTemplates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

func newRouter(site *Site) (*gin.Engine, error) {
	tmpl, err := loadTemplates()
	if err != nil {
		return nil, err
	}

	r := gin.Default()
	r.SetHTMLTemplate(tmpl)
	r.Use(visitorTrackingMiddleware(site))

	r.Static("/images", site.cfg.Server.ImagesDir)
	r.Static("/static", site.cfg.Server.StaticDir)

	// Home page route
	r.GET("/", func(c *gin.Context) {
		projects, err := site.store.Projects(c.Request.Context())
		if err != nil {
			log.Printf("Error loading projects: %v", err)
			c.String(http.StatusInternalServerError, "Failed to load projects")
			return
		}

		// The page still renders without the map when the embed fails.
		mapHTML, err := site.maps.Embed(site.cfg.Map)
		if err != nil {
			log.Printf("Error embedding map: %v", err)
		}

		c.HTML(http.StatusOK, "index.html", gin.H{
			"site":     site.cfg.Site,
			"projects": projects,
			"map":      mapHTML,
			"slots":    site.cfg.Hero.Slots,
		})
	})

	// HTMX modal fragment for one project
	r.GET("/projects/:key", func(c *gin.Context) {
		key := c.Param("key")
		project, err := site.store.Project(c.Request.Context(), key)
		if errors.Is(err, ErrProjectNotFound) {
			c.HTML(http.StatusNotFound, "project-missing.html", gin.H{
				"key": key,
			})
			return
		}
		if err != nil {
			log.Printf("Error loading project %s: %v", key, err)
			c.HTML(http.StatusInternalServerError, "project-missing.html", gin.H{
				"key": key,
			})
			return
		}

		if c.GetHeader("DNT") != "1" {
			err := site.store.RecordProjectView(c.Request.Context(), key, site.auth.hashIP(c.ClientIP()), site.now())
			if err != nil {
				log.Printf("Error recording project view: %v", err)
			}
		}

		c.HTML(http.StatusOK, "project-modal.html", gin.H{
			"project": project,
		})
	})

	api := r.Group("/api")

	api.GET("/projects", func(c *gin.Context) {
		projects, err := site.store.Projects(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if projects == nil {
			projects = []Project{}
		}
		c.JSON(http.StatusOK, projects)
	})

	api.GET("/projects/:key", func(c *gin.Context) {
		project, err := site.store.Project(c.Request.Context(), c.Param("key"))
		if errors.Is(err, ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, project)
	})

	api.GET("/map", func(c *gin.Context) {
		m := site.cfg.Map
		c.JSON(http.StatusOK, gin.H{
			"element":             m.Element,
			"latitude":            m.Latitude,
			"longitude":           m.Longitude,
			"zoom":                m.Zoom,
			"popup":               m.Popup,
			"tile_url":            m.TileURL,
			"attribution":         m.Attribution,
			"dragging":            m.Dragging,
			"scroll_wheel_zoom":   m.ScrollWheelZoom,
			"touch_zoom":          m.TouchZoom,
			"invalidate_delay_ms": m.InvalidateDelay.Milliseconds(),
		})
	})

	// Server-rendered frame of a hero slot, e.g. /hero/top.png?w=800&h=400
	r.GET("/hero/:file", func(c *gin.Context) {
		name, ok := strings.CutSuffix(c.Param("file"), ".png")
		slot, found := site.cfg.Slot(name)
		if !ok || !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown hero slot"})
			return
		}

		w, werr := boundedInt(c.DefaultQuery("w", "800"), 1, maxSnapshotWidth)
		h, herr := boundedInt(c.DefaultQuery("h", "400"), 1, maxSnapshotHeight)
		frames, ferr := boundedInt(c.DefaultQuery("frames", "60"), 0, maxSnapshotFrames)
		if err := errors.Join(werr, herr, ferr); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		png, err := site.heroes.get(snapshotKey(name, w, h, frames), func() (heroPNG, error) {
			raster, renderer, err := hero.Snapshot(slot.Renderer(), w, h, frames)
			if err != nil {
				return heroPNG{}, err
			}
			var buf bytes.Buffer
			if err := raster.EncodePNG(&buf); err != nil {
				return heroPNG{}, err
			}
			return heroPNG{data: buf.Bytes(), count: renderer.Count()}, nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("X-Particle-Count", strconv.Itoa(png.count))
		c.Header("Cache-Control", "public, max-age=3600")
		c.Data(http.StatusOK, "image/png", png.data)
	})

	setupAdminRoutes(r, site)
	return r, nil
}

func boundedInt(s string, lo, hi int) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("%d is outside %d..%d", v, lo, hi)
	}
	return v, nil
}
