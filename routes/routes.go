package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"wedding-rsvp/controllers"
	"wedding-rsvp/middleware"
)

func parseCorsOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// Options carries what the router needs besides the controllers.
type Options struct {
	CorsOrigins     string
	AdminAPIKey     string
	AdminAPIKeyHash string
}

// SetupRouter wires the controllers onto their routes.
func SetupRouter(
	ac *controllers.AdminController,
	ec *controllers.EmailController,
	rc *controllers.RSVPController,
	qc *controllers.QuizController,
	opts Options,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())

	origins := parseCorsOrigins(opts.CorsOrigins)
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	adminOnly := middleware.AdminAuth(opts.AdminAPIKey, opts.AdminAPIKeyHash)

	api := r.Group("/api")
	{
		admin := api.Group("/admin", adminOnly)
		{
			admin.GET("/data", ac.GetData)
			admin.GET("/quiz-stats", ac.QuizStats)
			admin.POST("/add-guest", ac.AddGuest)
			admin.POST("/create-household", ac.CreateHousehold)
			admin.POST("/delete-guest", ac.DeleteGuest)
			admin.POST("/delete-household", ac.DeleteHousehold)
			admin.POST("/move-guest", ac.MoveGuest)
			admin.POST("/update-guest", ac.UpdateGuest)
			admin.POST("/update-household", ac.UpdateHousehold)
			admin.POST("/send-single", ac.SendSingle)
		}

		email := api.Group("/email", adminOnly)
		{
			email.POST("/send-invites", ec.SendInvites)
			email.POST("/send-update", ec.SendUpdate)
		}

		rsvp := api.Group("/rsvp")
		{
			// static segments before /:token
			rsvp.GET("/lookup", rc.Lookup)
			rsvp.GET("/view", rc.View)
			rsvp.GET("/:token", rc.GetByToken)
			rsvp.POST("/:token", rc.Submit)
		}

		api.POST("/quiz/attempt", qc.RecordAttempt)
	}

	return r
}
