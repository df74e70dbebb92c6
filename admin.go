// admin.go - privacy-conscious visitor metrics and the admin area
package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocarina/gocsv"
)

// Privacy-conscious visitor tracking struct
type VisitorMetric struct {
	ID        int       `json:"id" csv:"id"`
	HashedIP  string    `json:"hashed_ip" csv:"hashed_ip"` // Hashed instead of raw IP for privacy
	UserAgent string    `json:"user_agent" csv:"user_agent"`
	Path      string    `json:"path" csv:"path"`
	Timestamp time.Time `json:"timestamp" csv:"timestamp"`
}

type ProjectStat struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Views int64  `json:"views"`
}

type AdminStats struct {
	TotalVisitors     int64           `json:"total_visitors"`
	UniqueVisitors    int64           `json:"unique_visitors"`
	VisitorsToday     int64           `json:"visitors_today"`
	VisitorsThisWeek  int64           `json:"visitors_this_week"`
	TotalProjects     int64           `json:"total_projects"`
	TotalProjectViews int64           `json:"total_project_views"`
	TopProjects       []ProjectStat   `json:"top_projects"`
	RecentVisitors    []VisitorMetric `json:"recent_visitors"`
}

// adminAuth holds the per-process session token and the salt used to hash
// visitor IPs. Both are regenerated on every start.
type adminAuth struct {
	token    string
	salt     string
	username string
	password string
}

func newAdminAuth(getenv func(string) string) (*adminAuth, error) {
	token, err := randomHex(32)
	if err != nil {
		return nil, fmt.Errorf("generating admin token: %w", err)
	}
	salt, err := randomHex(32)
	if err != nil {
		return nil, fmt.Errorf("generating hashing salt: %w", err)
	}

	a := &adminAuth{
		token:    token,
		salt:     salt,
		username: getenv("ADMIN_USERNAME"),
		password: getenv("ADMIN_PASSWORD"),
	}
	// Default credentials for development (set both variables in production)
	if a.username == "" {
		a.username = "admin"
		if gin.Mode() == gin.DebugMode {
			log.Println("WARNING: Using default admin username. Set ADMIN_USERNAME environment variable.")
		}
	}
	if a.password == "" {
		a.password = "admin123"
		if gin.Mode() == gin.DebugMode {
			log.Println("WARNING: Using default admin password. Set ADMIN_PASSWORD environment variable.")
		}
	}

	log.Printf("Admin access available at: /admin/login")
	if gin.Mode() == gin.DebugMode {
		log.Printf("Admin token (dev only): %s", a.token)
	}
	return a, nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Hash IP address for privacy compliance (consistent per IP within a run)
func (a *adminAuth) hashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + a.salt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

func (a *adminAuth) checkCredentials(username, password string) bool {
	u := subtle.ConstantTimeCompare([]byte(username), []byte(a.username))
	p := subtle.ConstantTimeCompare([]byte(password), []byte(a.password))
	return u&p == 1
}

// Middleware to check admin authentication
func (a *adminAuth) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("admin_token")
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// untrackedPrefixes are never recorded as visits. Project modals are counted
// as project views instead.
var untrackedPrefixes = []string{"/static/", "/images/", "/admin/", "/api/", "/hero/", "/projects/", "/favicon", "/privacy"}

// Privacy-conscious visitor tracking middleware
func visitorTrackingMiddleware(site *Site) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range untrackedPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		// Respect Do Not Track header
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		err := site.store.RecordVisit(c.Request.Context(), VisitorMetric{
			HashedIP:  site.auth.hashIP(c.ClientIP()),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      path,
			Timestamp: site.now(),
		})
		if err != nil {
			log.Printf("Error recording visitor: %v", err)
		}
	}
}

// Cleanup old visitor data for privacy compliance
func cleanupOldVisitorData(ctx context.Context, site *Site) {
	cutoff := site.now().Add(-site.cfg.Admin.Retention)
	n, err := site.store.CleanupVisitors(ctx, cutoff)
	if err != nil {
		log.Printf("Error cleaning up old visitor data: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Privacy cleanup: Removed %d visitor records older than %s", n, site.cfg.Admin.Retention)
	}
}

// Setup all admin routes
func setupAdminRoutes(r *gin.Engine, site *Site) {
	auth := site.auth

	// Privacy policy route
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":     "Privacy Policy",
			"retention": site.cfg.Admin.Retention,
		})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		if auth.checkCredentials(c.PostForm("username"), c.PostForm("password")) {
			// Secure cookie (24 hours)
			c.SetCookie("admin_token", auth.token, 3600*24, "/admin", "", false, true)
			log.Printf("Admin login successful from %s", auth.hashIP(c.ClientIP()))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}
		log.Printf("Failed admin login attempt from %s", auth.hashIP(c.ClientIP()))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"title": "Admin Login",
			"error": "Invalid credentials",
		})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie("admin_token", "", -1, "/admin", "", false, true)
		log.Printf("Admin logout from %s", auth.hashIP(c.ClientIP()))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	// Protected admin routes group
	adminGroup := r.Group("/admin")
	adminGroup.Use(auth.middleware())

	adminGroup.GET("/dashboard", func(c *gin.Context) {
		stats, err := site.store.Stats(c.Request.Context(), site.now())
		if err != nil {
			log.Printf("Error loading admin stats: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats": stats,
		})
	})

	adminGroup.GET("/api/stats", func(c *gin.Context) {
		stats, err := site.store.Stats(c.Request.Context(), site.now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	adminGroup.GET("/visitors", func(c *gin.Context) {
		visitors, err := site.store.Visitors(c.Request.Context(), 200)
		if err != nil {
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
		})
	})

	// Privacy compliance endpoint - drop everything past the retention window now
	adminGroup.POST("/privacy/delete-visitor-data", func(c *gin.Context) {
		cleanupOldVisitorData(c.Request.Context(), site)
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup completed"})
	})

	// Admin statistics export (for backups or analysis)
	adminGroup.GET("/export/stats", func(c *gin.Context) {
		stats, err := site.store.Stats(c.Request.Context(), site.now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		log.Printf("Admin stats exported by %s", auth.hashIP(c.ClientIP()))
		c.JSON(http.StatusOK, stats)
	})

	adminGroup.GET("/export/visitors.csv", func(c *gin.Context) {
		visitors, err := site.store.Visitors(c.Request.Context(), 10000)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		data, err := gocsv.MarshalBytes(&visitors)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=visitors.csv")
		log.Printf("Visitor CSV exported by %s", auth.hashIP(c.ClientIP()))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
	})
}
